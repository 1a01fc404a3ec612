// Package pipeline runs feature extraction, score mapping and aggregation
// over a batch of matches and ranks the result.
package pipeline

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/dotawatch/features"
	"github.com/padraicbc/dotawatch/match"
	"github.com/padraicbc/dotawatch/scoring"
)

// Scored is the derived view of one match after a pipeline run.
type Scored struct {
	Match    match.Match
	Features features.Features
	Scores   scoring.SubScores
	Result   scoring.Result
}

// View selects the score a ranking is ordered by.
type View int

const (
	// Highlights orders by the weighted final score.
	Highlights View = iota
	// WholeGame orders by the whole-game score.
	WholeGame
)

// Scorer is stateless between runs; all inputs arrive with each batch.
type Scorer struct {
	cfg        scoring.Config
	mapper     *scoring.Mapper
	aggregator *scoring.Aggregator
	extract    func(m match.Match, gameNum int, now time.Time) features.Features
	now        func() time.Time
	log        *zap.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithClock sets the time source used for recency features.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) { s.now = now }
}

// WithLogger sets the logger used to report per-match fallbacks.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scorer) { s.log = l }
}

// NewScorer validates cfg and builds a Scorer.
func NewScorer(cfg scoring.Config, opts ...Option) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Scorer{
		cfg:        cfg,
		mapper:     scoring.NewMapper(cfg),
		aggregator: scoring.NewAggregator(cfg),
		extract:    features.Extract,
		now:        time.Now,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the scoring config the Scorer was built with.
func (s *Scorer) Config() scoring.Config {
	return s.cfg
}

// Run scores batch, orders it by final score and keeps the configured top N.
func (s *Scorer) Run(batch []match.Match, dir match.Directory) []Scored {
	return Top(s.Rank(batch, dir, Highlights), s.cfg.TopN)
}

// Rank scores every match in batch and orders the result by view. The input
// slice is not modified.
func (s *Scorer) Rank(batch []match.Match, dir match.Directory, view View) []Scored {
	if len(batch) == 0 {
		return []Scored{}
	}
	now := s.now()

	resolved := make([]match.Match, len(batch))
	for i, m := range batch {
		resolved[i] = dir.Resolve(m)
	}
	gameNums := features.GameNumbers(resolved)

	out := make([]Scored, 0, len(resolved))
	for _, m := range resolved {
		out = append(out, s.score(m, gameNums[m.MatchID], now))
	}
	Sort(out, view)
	return out
}

// score runs one match through the model. A panic while deriving a match is
// contained to that match, which then carries only its fallback values.
func (s *Scorer) score(m match.Match, gameNum int, now time.Time) (sc Scored) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("match scoring failed, using fallbacks",
				zap.Int64("match_id", m.MatchID), zap.Any("panic", r))
			sc = s.fallback(m, gameNum, now, fmt.Sprint(r))
		}
	}()

	f := s.extract(m, gameNum, now)
	for _, fb := range f.Fallbacks {
		s.log.Debug("feature fallback",
			zap.Int64("match_id", m.MatchID),
			zap.String("feature", fb.Feature),
			zap.String("reason", fb.Reason))
	}
	sub := s.mapper.Map(f)
	return Scored{
		Match:    m,
		Features: f,
		Scores:   sub,
		Result:   s.aggregator.Aggregate(sub, f.UnknownTeam()),
	}
}

func (s *Scorer) fallback(m match.Match, gameNum int, now time.Time, reason string) Scored {
	bare := match.Match{
		MatchID:         m.MatchID,
		TeamAName:       m.TeamAName,
		TeamBName:       m.TeamBName,
		Tournament:      m.Tournament,
		ObservedAt:      m.ObservedAt,
		SeriesType:      m.SeriesType,
		BarracksUnknown: true,
	}
	f := features.Extract(bare, gameNum, now)
	f.Fallbacks = append(f.Fallbacks, features.Fallback{Feature: "match", Reason: reason})
	sub := s.mapper.Map(f)
	return Scored{
		Match:    m,
		Features: f,
		Scores:   sub,
		Result:   s.aggregator.Aggregate(sub, f.UnknownTeam()),
	}
}

// Sort orders scored by view, highest first. Equal scores keep their input
// order, which is the order the source returned them in.
func Sort(scored []Scored, view View) {
	key := func(sc Scored) float64 { return sc.Result.Final }
	if view == WholeGame {
		key = func(sc Scored) float64 { return sc.Result.WholeGame }
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return key(scored[i]) > key(scored[j])
	})
}

// Top returns the first n entries; n <= 0 keeps everything.
func Top(scored []Scored, n int) []Scored {
	if n <= 0 || len(scored) <= n {
		return scored
	}
	return scored[:n]
}
