package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MatchRating is a user's own 1-10 rating of a match, keyed by match id.
type MatchRating struct {
	bun.BaseModel `bun:"table:match_ratings,alias:mr"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	MatchID   string    `bun:"match_id,notnull,unique" json:"match_id"`
	Title     string    `bun:"title,notnull,default:''" json:"title"`
	Score     int       `bun:"score,notnull" json:"score"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
