package runtracker

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTracker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_run.json")

	tr, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file should be created: %v", err)
	}
	if !tr.ShouldRun("refresh", time.Hour) {
		t.Error("unknown key should run")
	}

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return now }
	if err := tr.MarkRun("refresh", now.Add(-30*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if tr.ShouldRun("refresh", time.Hour) {
		t.Error("ran 30 minutes ago, should skip")
	}
	if !tr.ShouldRun("refresh", 20*time.Minute) {
		t.Error("ran 30 minutes ago, should run with a 20 minute interval")
	}

	reopened, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	at, ok := reopened.LastRun("refresh")
	if !ok || !at.Equal(now.Add(-30*time.Minute)) {
		t.Errorf("LastRun = %v %v", at, ok)
	}
}

func TestTrackerCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_run.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	tr, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !tr.ShouldRun("teams", time.Hour) {
		t.Error("reset tracker should run")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{}" {
		t.Errorf("file = %q, want reset to {}", b)
	}
}
