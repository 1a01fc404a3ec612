package scoring

import (
	"testing"

	"github.com/padraicbc/dotawatch/features"
)

func intp(v int) *int { return &v }

func TestGoodTeamScore(t *testing.T) {
	tiers := DefaultConfig().GoodTeamTiers
	tests := []struct {
		name         string
		rankA, rankB *int
		want         float64
	}{
		{name: "both top five", rankA: intp(1), rankB: intp(3), want: 1},
		{name: "both top thirteen", rankA: intp(2), rankB: intp(9), want: 0.75},
		{name: "one top five", rankA: intp(30), rankB: intp(3), want: 0.75},
		{name: "one top thirteen", rankA: intp(10), rankB: intp(30), want: 0.5},
		{name: "neither", rankA: intp(20), rankB: intp(30), want: 0},
		{name: "single known rank", rankA: nil, rankB: intp(4), want: 1},
		{name: "no ranks", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GoodTeamScore(tiers, tt.rankA, tt.rankB); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapperMap(t *testing.T) {
	mp := NewMapper(DefaultConfig())

	base := features.Features{
		LeadKnown:         true,
		MinutesInLead:     1,
		MaxSwing:          9500,
		FractionSmallLead: 0.75,
		FightFraction:     0.15,
		DurationMinutes:   55,
		KillsPerMinute:    1.25,
		DaysAgo:           -2,
		Title:             "Nigma Galaxy vs Azure Ray game 1 PGL Wallachia",
		Comeback:          features.ComebackMargin{Known: true, WinnerBarracksLost: 0, WinnerBarracksDiff: 0},
	}

	s := mp.Map(base)
	want := SubScores{
		SmallLead:       0.5,
		MinutesInLead:   1,
		Swing:           0.5,
		Comeback:        0.51,
		FightFraction:   0.5,
		Duration:        0.5,
		KillsPerMinute:  0.5,
		DaysAgo:         0.98,
		GoodTeamPlaying: 1,
	}
	if s != want {
		t.Fatalf("got  %+v\nwant %+v", s, want)
	}

	t.Run("unknown lead scores zero", func(t *testing.T) {
		f := base
		f.LeadKnown = false
		f.MinutesInLead = 0
		if got := mp.Map(f).MinutesInLead; got != 0 {
			t.Errorf("MinutesInLead = %v", got)
		}
	})

	t.Run("lead small every minute", func(t *testing.T) {
		f := base
		f.FractionSmallLead = 1
		if got := mp.Map(f).SmallLead; got != 0 {
			t.Errorf("SmallLead = %v", got)
		}
	})

	t.Run("full comeback overrides differential", func(t *testing.T) {
		f := base
		f.Comeback = features.ComebackMargin{Known: true, WinnerBarracksLost: 63, WinnerBarracksDiff: 0}
		if got := mp.Map(f).Comeback; got != 1 {
			t.Errorf("Comeback = %v", got)
		}
	})

	t.Run("unknown barracks score zero", func(t *testing.T) {
		for _, c := range []features.ComebackMargin{
			{},
			{WinnerBarracksLost: 63, WinnerBarracksDiff: -63},
		} {
			f := base
			f.Comeback = c
			if got := mp.Map(f).Comeback; got != 0 {
				t.Errorf("%+v: Comeback = %v, want 0", c, got)
			}
		}
	})

	t.Run("aegis steal is binary", func(t *testing.T) {
		f := base
		f.Objectives = features.ObjectiveCounts{AegisStolen: 3}
		if got := mp.Map(f).AegisSteals; got != 1 {
			t.Errorf("AegisSteals = %v", got)
		}
	})

	t.Run("ranks without allow-listed team", func(t *testing.T) {
		f := base
		f.Title = "Nigma Galaxy vs Nemiga game 1 PGL Wallachia"
		f.TeamARank, f.TeamBRank = intp(10), intp(40)
		if got := mp.Map(f).GoodTeamPlaying; got != 0.5 {
			t.Errorf("GoodTeamPlaying = %v", got)
		}
	})
}

func TestAggregate(t *testing.T) {
	agg := NewAggregator(DefaultConfig())

	s := SubScores{
		SmallLead:       0.2,
		MinutesInLead:   1,
		Swing:           0.4,
		Comeback:        0.1,
		DaysAgo:         0.58,
		GoodTeamPlaying: 0.5,
		FightFraction:   0.9,
	}

	t.Run("known teams", func(t *testing.T) {
		r := agg.Aggregate(s, false)
		if r.Interesting != 1 {
			t.Errorf("Interesting = %v", r.Interesting)
		}
		if r.Final != 80 || r.Penalized {
			t.Errorf("Final = %v penalized %v", r.Final, r.Penalized)
		}
		if r.WholeGame != 0.9 {
			t.Errorf("WholeGame = %v", r.WholeGame)
		}
	})

	t.Run("unknown team halves after rounding", func(t *testing.T) {
		r := agg.Aggregate(s, true)
		if r.Unpenalized != 80 || r.Final != 40 || !r.Penalized {
			t.Errorf("got %+v", r)
		}
		if r.WholeGame != 0.9 {
			t.Errorf("whole game score should not be penalized, got %v", r.WholeGame)
		}
	})

	t.Run("interesting is the max of its components", func(t *testing.T) {
		for _, c := range []Component{SmallLead, MinutesInLead, Swing, Comeback} {
			sub := SubScores{}
			switch c {
			case SmallLead:
				sub.SmallLead = 0.7
			case MinutesInLead:
				sub.MinutesInLead = 0.7
			case Swing:
				sub.Swing = 0.7
			case Comeback:
				sub.Comeback = 0.7
			}
			if got := agg.Aggregate(sub, false).Interesting; got != 0.7 {
				t.Errorf("%s: Interesting = %v, want 0.7", c, got)
			}
		}
	})

	t.Run("whole game includes kills per minute", func(t *testing.T) {
		r := agg.Aggregate(SubScores{KillsPerMinute: 0.95, Swing: 0.3}, false)
		if r.WholeGame != 0.95 {
			t.Errorf("WholeGame = %v, want 0.95", r.WholeGame)
		}
	})

	t.Run("all zero", func(t *testing.T) {
		r := agg.Aggregate(SubScores{}, false)
		if r.Final != 0 || r.WholeGame != 0 {
			t.Errorf("got %+v", r)
		}
	})

	t.Run("all one", func(t *testing.T) {
		r := agg.Aggregate(SubScores{SmallLead: 1, DaysAgo: 1, GoodTeamPlaying: 1, AegisSteals: 1}, false)
		if r.Final != 100 {
			t.Errorf("Final = %v, want 100", r.Final)
		}
	})
}

func TestAggregateAlternateWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FinalComponents = []Weighted{{Interesting, 1}, {DaysAgo, 1}}
	r := NewAggregator(cfg).Aggregate(SubScores{Swing: 0.5, DaysAgo: 1}, false)
	if r.Final != 75 {
		t.Errorf("Final = %v, want 75", r.Final)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if got := DefaultConfig().TotalWeight(); got != 5.1 {
		t.Errorf("TotalWeight = %v, want 5.1", got)
	}

	bad := []func(*Config){
		func(c *Config) { c.FinalComponents = nil },
		func(c *Config) { c.FinalComponents = []Weighted{{DaysAgo, 0}} },
		func(c *Config) { c.FinalComponents = append(c.FinalComponents, Weighted{Swing, -1}) },
		func(c *Config) { c.InterestingComponents = []Component{Interesting} },
		func(c *Config) { c.TopN = -1 },
	}
	for i, mutate := range bad {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestWithDurationCeiling(t *testing.T) {
	cfg := DefaultConfig().WithDurationCeiling(0.9)
	if got := NewMapper(cfg).Map(features.Features{DurationMinutes: 90}).Duration; got != 0.9 {
		t.Errorf("Duration = %v, want 0.9", got)
	}
}
