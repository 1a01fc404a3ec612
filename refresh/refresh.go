// Package refresh keeps the cached ranking warm: it fetches recent matches
// and the team directory, scores them and stores the top N.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/padraicbc/dotawatch/db"
	"github.com/padraicbc/dotawatch/match"
	"github.com/padraicbc/dotawatch/opendota"
	"github.com/padraicbc/dotawatch/pipeline"
	"github.com/padraicbc/dotawatch/runtracker"
)

// Run tracker keys.
const (
	KeyMatches = "last_ran_matches"
	KeyTeams   = "last_ran_teams"
)

// ErrNoData is returned when the source had no matches to score.
var ErrNoData = errors.New("refresh: source returned no matches")

// Source provides raw matches and the team directory.
type Source interface {
	RecentMatches(ctx context.Context, q opendota.Query) ([]match.Match, error)
	Teams(ctx context.Context, limit int) (match.Directory, error)
}

// Options controls what is fetched and how long results are kept.
type Options struct {
	// Query builds the match query for a run starting at now.
	Query        func(now time.Time) opendota.Query
	TeamsLimit   int
	CacheDays    int
	Every        time.Duration
	TeamsEvery   time.Duration
	PollInterval time.Duration
}

// Service runs refreshes. Runs are serialised.
type Service struct {
	db      *bun.DB
	source  Source
	scorer  *pipeline.Scorer
	tracker *runtracker.Tracker
	opts    Options
	log     *zap.Logger
	now     func() time.Time

	mu    sync.Mutex
	teams match.Directory
}

// New builds a Service. tracker may be nil, in which case every Start tick runs.
func New(bdb *bun.DB, source Source, scorer *pipeline.Scorer, tracker *runtracker.Tracker, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Query == nil {
		opts.Query = func(time.Time) opendota.Query { return opendota.DefaultQuery() }
	}
	if opts.CacheDays <= 0 {
		opts.CacheDays = 30
	}
	if opts.Every <= 0 {
		opts.Every = time.Hour
	}
	if opts.TeamsEvery <= 0 {
		opts.TeamsEvery = opts.Every
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Minute
	}
	return &Service{
		db:      bdb,
		source:  source,
		scorer:  scorer,
		tracker: tracker,
		opts:    opts,
		log:     log,
		now:     time.Now,
	}
}

// Run fetches, scores and stores one batch and returns how many matches were
// cached. On a fetch failure nothing is written.
func (s *Service) Run(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	matches, dir, err := s.fetch(ctx, start)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, ErrNoData
	}

	scored := s.scorer.Run(matches, dir)
	rows := Rows(scored)

	var pruned int64
	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := db.UpsertCachedMatches(ctx, tx, rows); err != nil {
			return err
		}
		pruned, err = db.PruneCachedMatches(ctx, tx, start.AddDate(0, 0, -s.opts.CacheDays))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("storing refresh: %w", err)
	}

	if s.tracker != nil {
		if err := s.tracker.MarkRun(KeyMatches, start); err != nil {
			s.log.Warn("could not record refresh", zap.Error(err))
		}
	}
	s.log.Info("refreshed rankings",
		zap.Int("fetched", len(matches)),
		zap.Int("cached", len(rows)),
		zap.Int64("pruned", pruned),
		zap.Duration("took", time.Since(start)))
	return len(rows), nil
}

// fetch gets the matches and, when due, a new team directory concurrently.
func (s *Service) fetch(ctx context.Context, now time.Time) ([]match.Match, match.Directory, error) {
	var (
		matches []match.Match
		dir     = s.teams
	)
	needTeams := dir == nil || s.tracker == nil || s.tracker.ShouldRun(KeyTeams, s.opts.TeamsEvery)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.source.RecentMatches(gctx, s.opts.Query(now))
		if err != nil {
			return fmt.Errorf("fetching matches: %w", err)
		}
		return nil
	})
	if needTeams {
		g.Go(func() error {
			fresh, err := s.source.Teams(gctx, s.opts.TeamsLimit)
			if err != nil {
				return fmt.Errorf("fetching teams: %w", err)
			}
			dir = fresh
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if needTeams {
		s.teams = dir
		if s.tracker != nil {
			if err := s.tracker.MarkRun(KeyTeams, now); err != nil {
				s.log.Warn("could not record team refresh", zap.Error(err))
			}
		}
	}
	return matches, dir, nil
}

// Start refreshes whenever the last run is older than Every, checking each
// PollInterval, until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	tick := time.NewTicker(s.opts.PollInterval)
	defer tick.Stop()

	for {
		if s.due() {
			if _, err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.log.Error("scheduled refresh failed", zap.Error(err))
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}

func (s *Service) due() bool {
	if s.tracker == nil {
		return true
	}
	return s.tracker.ShouldRun(KeyMatches, s.opts.Every)
}
