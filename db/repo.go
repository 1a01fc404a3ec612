package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/padraicbc/dotawatch/models"
)

// ErrNoUser is returned by User when the username is not registered.
var ErrNoUser = errors.New("no such user")

// Order selects how cached matches are listed.
type Order int

const (
	ByFinalScore Order = iota
	ByWholeGameScore
)

// UpsertRating inserts or replaces the rating for r.MatchID.
func UpsertRating(ctx context.Context, db bun.IDB, r *models.MatchRating) error {
	now := time.Now().UTC().Truncate(time.Second)
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	_, err := db.NewInsert().
		Model(r).
		On("CONFLICT (match_id) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("score = EXCLUDED.score").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upserting rating %s: %w", r.MatchID, err)
	}
	return nil
}

// Ratings returns the ratings for matchIDs, or every rating when none are given.
func Ratings(ctx context.Context, db bun.IDB, matchIDs ...string) ([]models.MatchRating, error) {
	var out []models.MatchRating
	q := db.NewSelect().Model(&out).Order("updated_at DESC")
	if len(matchIDs) > 0 {
		q = q.Where("match_id IN (?)", bun.In(matchIDs))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("loading ratings: %w", err)
	}
	return out, nil
}

// UpsertCachedMatches writes rows, replacing any existing row per match id.
func UpsertCachedMatches(ctx context.Context, db bun.IDB, rows []models.CachedMatch) error {
	if len(rows) == 0 {
		return nil
	}
	now := time.Now().UTC().Truncate(time.Second)
	for i := range rows {
		rows[i].UpdatedAt = now
	}
	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (match_id) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("final_score = EXCLUDED.final_score").
		Set("whole_game_score = EXCLUDED.whole_game_score").
		Set("days_ago = EXCLUDED.days_ago").
		Set("days_ago_pretty = EXCLUDED.days_ago_pretty").
		Set("first_fight_at = EXCLUDED.first_fight_at").
		Set("tournament = EXCLUDED.tournament").
		Set("radiant_team_name = EXCLUDED.radiant_team_name").
		Set("dire_team_name = EXCLUDED.dire_team_name").
		Set("duration_min = EXCLUDED.duration_min").
		Set("observed_at = EXCLUDED.observed_at").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upserting %d cached matches: %w", len(rows), err)
	}
	return nil
}

// PruneCachedMatches deletes matches that started before cutoff. Rows without
// a start time are judged by when they were last written.
func PruneCachedMatches(ctx context.Context, db bun.IDB, cutoff time.Time) (int64, error) {
	cutoff = cutoff.UTC().Truncate(time.Second)
	res, err := db.NewDelete().
		Model((*models.CachedMatch)(nil)).
		Where("observed_at < ? OR (observed_at IS NULL AND updated_at < ?)", cutoff, cutoff).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("pruning cached matches: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// CachedMatches lists up to limit cached matches, best first.
func CachedMatches(ctx context.Context, db bun.IDB, order Order, limit int) ([]models.CachedMatch, error) {
	out := []models.CachedMatch{}
	q := db.NewSelect().Model(&out)
	switch order {
	case ByWholeGameScore:
		q = q.OrderExpr("whole_game_score DESC NULLS LAST")
	default:
		q = q.OrderExpr("final_score DESC NULLS LAST")
	}
	q = q.OrderExpr("observed_at DESC").Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("loading cached matches: %w", err)
	}
	return out, nil
}

// CountCachedMatches reports how many matches are cached.
func CountCachedMatches(ctx context.Context, db bun.IDB) (int, error) {
	n, err := db.NewSelect().Model((*models.CachedMatch)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting cached matches: %w", err)
	}
	return n, nil
}

// UpsertUser creates username or replaces its password hash.
func UpsertUser(ctx context.Context, db bun.IDB, username, passwordHash string) error {
	user := &models.User{
		Username:  username,
		Password:  passwordHash,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err := db.NewInsert().Model(user).
		On("CONFLICT (username) DO UPDATE").
		Set("password = EXCLUDED.password").
		Returning("NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("saving user %s: %w", username, err)
	}
	return nil
}

// User loads a registered user by name.
func User(ctx context.Context, db bun.IDB, username string) (*models.User, error) {
	user := new(models.User)
	err := db.NewSelect().Model(user).Where("username = ?", username).Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrNoUser
	case err != nil:
		return nil, fmt.Errorf("loading user %s: %w", username, err)
	}
	return user, nil
}
