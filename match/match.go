// Package match holds the raw per-game record fed into the scoring pipeline
// and the team directory joined onto it.
package match

import "time"

// Unknown marks a team or tournament name that could not be resolved.
const Unknown = "???"

// Field names recorded in Match.Malformed.
const (
	FieldGoldAdvantage = "gold_advantage_series"
	FieldTeamfights    = "teamfight_events"
	FieldObjectives    = "objective_events"
	FieldBarracks      = "barracks_status"
)

// Match is one completed game. Side A is radiant, side B is dire.
type Match struct {
	MatchID         int64
	DurationSeconds int
	SideAWon        bool

	// GoldAdvantage is side A's net-worth lead per elapsed minute. Nil when absent.
	GoldAdvantage Series
	// Teamfights is nil when absent; a non-nil empty slice means no fights were recorded.
	Teamfights Teamfights
	Objectives Objectives

	// Barracks bitmasks per side, 63 when nothing fell. BarracksUnknown is set
	// when the source had no status, since 0 would read as every barracks lost.
	BarracksStatusA int
	BarracksStatusB int
	BarracksUnknown bool
	TowerStatusA    int
	TowerStatusB    int

	// Kill totals per side.
	ScoreA int
	ScoreB int

	TeamAID    int64
	TeamBID    int64
	TeamAName  string
	TeamBName  string
	TeamARank  *int
	TeamBRank  *int
	Tournament string

	LeagueID   int64
	SeriesID   int64
	SeriesType int

	ObservedAt time.Time

	// Malformed lists raw fields that were present but could not be parsed.
	Malformed []string
}

// HasUnknownTeam reports whether either side's name is unresolved.
func (m Match) HasUnknownTeam() bool {
	return m.TeamAName == "" || m.TeamBName == "" ||
		m.TeamAName == Unknown || m.TeamBName == Unknown
}

// IsMalformed reports whether field was recorded as unparsable.
func (m Match) IsMalformed(field string) bool {
	for _, f := range m.Malformed {
		if f == field {
			return true
		}
	}
	return false
}

// TotalKills is the combined kill score of both sides.
func (m Match) TotalKills() int {
	return m.ScoreA + m.ScoreB
}

// BestOf maps the upstream series type to the number of games in the series.
func BestOf(seriesType int) int {
	switch seriesType {
	case 1:
		return 3
	case 2:
		return 5
	default:
		return 1
	}
}
