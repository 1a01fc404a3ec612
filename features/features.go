// Package features turns one raw match record into the flat feature set the
// scoring model reads. Extraction is a pure function of the record and never
// fails: each sub-feature has a fallback value that is recorded instead.
package features

import (
	"math"
	"time"

	"github.com/padraicbc/dotawatch/match"
)

// Fallback records a sub-feature that was replaced with its default.
type Fallback struct {
	Feature string `json:"feature"`
	Reason  string `json:"reason"`
}

// Features is the derived, immutable view of one match.
type Features struct {
	MatchID int64

	// LeadKnown is false when the gold series was absent or unreadable; the
	// lead-based features are then fallbacks and score as not interesting.
	LeadKnown         bool
	MinutesInLead     int
	MaxSwing          int
	FractionSmallLead float64

	FirstFightSecond int
	FightFraction    float64
	AvgFightSeconds  float64

	Objectives ObjectiveCounts
	Comeback   ComebackMargin

	DurationMinutes float64
	KillsPerMinute  float64
	DaysAgo         int
	TimeAgo         string

	TeamA      string
	TeamB      string
	TeamARank  *int
	TeamBRank  *int
	Tournament string
	GameNum    int
	BestOf     int
	Title      string

	// Boring flags games that were neither close nor swingy.
	Boring bool

	Fallbacks []Fallback
}

// UnknownTeam reports whether either team name is unresolved.
func (f Features) UnknownTeam() bool {
	return f.TeamA == match.Unknown || f.TeamB == match.Unknown
}

// Extract derives the feature set of m. gameNum comes from a batch-wide
// GameNumbers pass; now anchors the recency features.
func Extract(m match.Match, gameNum int, now time.Time) Features {
	f := Features{
		MatchID:    m.MatchID,
		TeamA:      orUnknown(m.TeamAName),
		TeamB:      orUnknown(m.TeamBName),
		TeamARank:  m.TeamARank,
		TeamBRank:  m.TeamBRank,
		Tournament: CleanTournament(m.Tournament),
		GameNum:    gameNum,
		BestOf:     match.BestOf(m.SeriesType),
	}
	f.Title = Title(f.TeamA, f.TeamB, gameNum, m.Tournament)

	f.extractLead(m)
	f.extractFights(m)
	f.Objectives = CountObjectives(m.Objectives)
	if m.IsMalformed(match.FieldObjectives) {
		f.fallback(match.FieldObjectives, "unparsable objective events")
	}
	if m.BarracksUnknown {
		f.fallback(match.FieldBarracks, "no barracks status")
	} else {
		f.Comeback = Comeback(m.BarracksStatusA, m.BarracksStatusB, m.SideAWon)
	}

	f.DurationMinutes = DurationMinutes(m.DurationSeconds)
	f.KillsPerMinute = KillsPerMinute(m.TotalKills(), f.DurationMinutes)
	if m.ObservedAt.IsZero() {
		f.fallback("observed_at", "missing start time")
	}
	f.DaysAgo = DaysAgo(m.ObservedAt, now)
	f.TimeAgo = TimeAgo(m.ObservedAt, now)

	f.Boring = f.FractionSmallLead < 0.7 && f.MaxSwing < 5000
	return f
}

func (f *Features) extractLead(m match.Match) {
	switch {
	case m.IsMalformed(match.FieldGoldAdvantage):
		f.fallback(match.FieldGoldAdvantage, "unparsable gold advantage series")
		return
	case len(m.GoldAdvantage) == 0:
		f.fallback(match.FieldGoldAdvantage, "no gold advantage series")
		return
	}
	f.LeadKnown = true
	f.MinutesInLead = MinutesInLead(m.GoldAdvantage, m.SideAWon)
	f.MaxSwing = MaxSwing(m.GoldAdvantage)
	f.FractionSmallLead = round2(FractionSmallLead(m.GoldAdvantage))
}

func (f *Features) extractFights(m match.Match) {
	if m.IsMalformed(match.FieldTeamfights) {
		f.FirstFightSecond = MalformedFightsSecond
		f.fallback(match.FieldTeamfights, "unparsable teamfight events")
		return
	}
	st := TeamfightStats(m.Teamfights, m.DurationSeconds)
	if st.Count == 0 {
		f.fallback(match.FieldTeamfights, "no teamfight events")
	}
	f.FirstFightSecond = st.FirstFightSecond
	f.FightFraction = round2(st.FightFraction)
	f.AvgFightSeconds = round2(st.AvgFightSeconds)
}

func (f *Features) fallback(feature, reason string) {
	f.Fallbacks = append(f.Fallbacks, Fallback{Feature: feature, Reason: reason})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
