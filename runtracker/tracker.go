// Package runtracker records when periodic jobs last ran in a small JSON file
// so restarts do not re-run work that is still fresh.
package runtracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Tracker is safe for concurrent use.
type Tracker struct {
	path string
	log  *zap.Logger
	now  func() time.Time

	mu      sync.Mutex
	lastRun map[string]time.Time
}

// Open loads path. A missing, empty or corrupt file is replaced with an
// empty record.
func Open(path string, log *zap.Logger) (*Tracker, error) {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Tracker{path: path, log: log, now: time.Now, lastRun: map[string]time.Time{}}

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Info("run tracker file not found, creating", zap.String("path", path))
		return t, t.save()
	case err != nil:
		return nil, fmt.Errorf("reading run tracker: %w", err)
	}
	if err := json.Unmarshal(b, &t.lastRun); err != nil {
		log.Warn("run tracker file unreadable, resetting", zap.String("path", path), zap.Error(err))
		t.lastRun = map[string]time.Time{}
		return t, t.save()
	}
	if t.lastRun == nil {
		t.lastRun = map[string]time.Time{}
	}
	return t, nil
}

// ShouldRun reports whether key last ran more than every ago. A key that has
// never run should run.
func (t *Tracker) ShouldRun(key string, every time.Duration) bool {
	t.mu.Lock()
	last, ok := t.lastRun[key]
	t.mu.Unlock()

	if !ok {
		t.log.Info("no previous run, running", zap.String("key", key))
		return true
	}
	since := t.now().Sub(last)
	run := since > every
	t.log.Info("checked last run",
		zap.String("key", key),
		zap.Duration("since", since.Round(time.Minute)),
		zap.Bool("run", run))
	return run
}

// MarkRun records that key ran at at and persists the file.
func (t *Tracker) MarkRun(key string, at time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastRun[key] = at.UTC()
	return t.saveLocked()
}

// LastRun returns when key last ran.
func (t *Tracker) LastRun(key string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	at, ok := t.lastRun[key]
	return at, ok
}

func (t *Tracker) save() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saveLocked()
}

// saveLocked replaces the file atomically. t.mu must be held.
func (t *Tracker) saveLocked() error {
	b, err := json.MarshalIndent(t.lastRun, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(t.path)
	tmp, err := os.CreateTemp(dir, ".runtracker-*")
	if err != nil {
		return fmt.Errorf("writing run tracker: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing run tracker: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing run tracker: %w", err)
	}
	if err := os.Rename(tmp.Name(), t.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing run tracker: %w", err)
	}
	return nil
}
