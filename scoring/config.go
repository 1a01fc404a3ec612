// Package scoring maps extracted match features onto [0,1] sub-scores and
// aggregates them into the ranking score shown to users.
package scoring

import (
	"errors"
	"fmt"
)

// Component names a sub-score.
type Component string

const (
	SmallLead       Component = "lead_is_small_score"
	MinutesInLead   Component = "min_in_lead_score"
	Swing           Component = "swing_score"
	Comeback        Component = "barracks_comeback_score"
	FightFraction   Component = "fight_fraction_score"
	Duration        Component = "duration_min_score"
	KillsPerMinute  Component = "kills_per_min_score"
	DaysAgo         Component = "days_ago_score"
	GoodTeamPlaying Component = "good_team_playing_score"
	AegisSteals     Component = "aegis_steals_score"
	Interesting     Component = "interesting_score"
)

// Weighted is one term of the final score.
type Weighted struct {
	Component Component
	Weight    float64
}

// Tier awards Score when both team ranks (BothBelow) or at least one of them
// (EitherBelow) are under the cut-off. A zero cut-off is not checked.
type Tier struct {
	BothBelow   int
	EitherBelow int
	Score       float64
}

// Mappings holds the per-feature linear transforms.
type Mappings struct {
	FightFraction  Linear
	MinutesInLead  Linear
	Duration       Linear
	KillsPerMinute Linear
	SmallLead      Linear
	Swing          Linear
	DaysAgo        Linear
	Comeback       Linear
}

// Config is everything the mapper and aggregator need; nothing is global.
type Config struct {
	Mappings Mappings
	// GoodTeamTiers are checked in order, first match wins.
	GoodTeamTiers []Tier
	// TeamsILike force the good-team score to 1 when any appears in the title.
	TeamsILike []string

	InterestingComponents []Component
	FinalComponents       []Weighted
	WholeGameComponents   []Component

	// UnknownTeamFactor multiplies the final score when a team is unresolved.
	UnknownTeamFactor float64
	TopN              int
}

// DefaultTeamsILike is the curated allow-list.
var DefaultTeamsILike = []string{
	"lgd", "boom esports", "Team Spirit", "Gaimin Gladiators", "LGD Gaming",
	"Azure Ray", "Team Liquid", "BetBoom Team", "nouns", "Virtus pro", "TSM",
	"9Pandas", "Talon Esports", "Entity", "Shopify Rebellion", "Evil Geniuses",
	"Keyd Stars", "Tundra Esports", "Team SMG", "Thunder Awaken", "beastcoast",
	"Quest", "xtreme gaming", "invictus", "Natus Vincere", "MOUZ", "Virtus.pro",
	"HEROIC", "Team Falcons",
}

// DefaultConfig is the reference scoring model.
func DefaultConfig() Config {
	return Config{
		Mappings: Mappings{
			FightFraction:  Linear{Lo: 0.05, Hi: 0.25, OutLo: 0, OutHi: 1},
			MinutesInLead:  Linear{Lo: 5, Hi: 10, OutLo: 1, OutHi: 0},
			Duration:       Linear{Lo: 45, Hi: 65, OutLo: 0, OutHi: 1},
			KillsPerMinute: Linear{Lo: 0.5, Hi: 2, OutLo: 0, OutHi: 1},
			SmallLead:      Linear{Lo: 0.5, Hi: 1, OutLo: 0, OutHi: 1},
			Swing:          Linear{Lo: 7000, Hi: 12000, OutLo: 0, OutHi: 1},
			DaysAgo:        Linear{Lo: -100, Hi: 0, OutLo: 0, OutHi: 1},
			Comeback:       Linear{Lo: -36, Hi: 63, OutLo: 0.8, OutHi: 0, Below: clampTo(1)},
		},
		GoodTeamTiers: []Tier{
			{BothBelow: 6, Score: 1},
			{BothBelow: 14, Score: 0.75},
			{EitherBelow: 6, Score: 0.75},
			{EitherBelow: 14, Score: 0.5},
		},
		TeamsILike:            append([]string(nil), DefaultTeamsILike...),
		InterestingComponents: []Component{SmallLead, MinutesInLead, Swing, Comeback},
		FinalComponents: []Weighted{
			{Interesting, 3},
			{DaysAgo, 1},
			{GoodTeamPlaying, 1},
			{AegisSteals, 0.1},
		},
		WholeGameComponents: []Component{Swing, FightFraction, DaysAgo, GoodTeamPlaying, KillsPerMinute},
		UnknownTeamFactor:   0.5,
		TopN:                100,
	}
}

// WithDurationCeiling returns a copy whose duration score tops out at ceiling,
// covering the variant that capped long games at 0.9.
func (c Config) WithDurationCeiling(ceiling float64) Config {
	c.Mappings.Duration.OutHi = ceiling
	return c
}

// TotalWeight is the sum of the final-score weights.
func (c Config) TotalWeight() float64 {
	total := 0.0
	for _, w := range c.FinalComponents {
		total += w.Weight
	}
	return total
}

var errNoComponents = errors.New("scoring: no final score components")

// Validate checks the config can produce a score.
func (c Config) Validate() error {
	if len(c.FinalComponents) == 0 {
		return errNoComponents
	}
	if c.TotalWeight() <= 0 {
		return fmt.Errorf("scoring: total weight %v must be positive", c.TotalWeight())
	}
	for _, w := range c.FinalComponents {
		if w.Weight < 0 {
			return fmt.Errorf("scoring: negative weight for %s", w.Component)
		}
	}
	if len(c.InterestingComponents) == 0 {
		return errors.New("scoring: no interesting components")
	}
	for _, comp := range c.InterestingComponents {
		if comp == Interesting {
			return errors.New("scoring: interesting score cannot include itself")
		}
	}
	if c.TopN < 0 {
		return fmt.Errorf("scoring: negative top n %d", c.TopN)
	}
	return nil
}
