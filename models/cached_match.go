package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CachedMatch is one ranked match as last computed by a refresh. The table
// holds the current top N plus anything not yet pruned by age.
type CachedMatch struct {
	bun.BaseModel `bun:"table:cached_matches,alias:cm"`

	ID              int       `bun:"id,pk,autoincrement" json:"-"`
	MatchID         string    `bun:"match_id,notnull,unique" json:"match_id"`
	Title           string    `bun:"title" json:"title"`
	FinalScore      *float64  `bun:"final_score" json:"final_score"`
	WholeGameScore  *float64  `bun:"whole_game_score" json:"whole_game_score"`
	DaysAgo         *float64  `bun:"days_ago" json:"days_ago"`
	DaysAgoPretty   string    `bun:"days_ago_pretty" json:"days_ago_pretty"`
	FirstFightAt    string    `bun:"first_fight_at" json:"first_fight_at"`
	Tournament      string    `bun:"tournament" json:"tournament"`
	RadiantTeamName string    `bun:"radiant_team_name" json:"radiant_team_name"`
	DireTeamName    string    `bun:"dire_team_name" json:"dire_team_name"`
	DurationMin     *int      `bun:"duration_min" json:"duration_min"`
	ObservedAt      time.Time `bun:"observed_at,nullzero" json:"observed_at"`
	UpdatedAt       time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
