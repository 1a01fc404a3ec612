// cmd/migrate/main.go
// Copies users, ratings and the cached ranking from a legacy MySQL database
// into the configured database. Re-running skips rows that already exist.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/dota?parseTime=true" \
//	DATABASE_URL="postgres://..." \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/padraicbc/dotawatch/config"
	bundb "github.com/padraicbc/dotawatch/db"
	"github.com/padraicbc/dotawatch/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/dota?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- destination ---
	dst, err := bundb.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf("open destination: %v", err)
	}
	defer dst.Close()
	log.Printf("connected to %s", cfg.MaskedDSN())

	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"users", func() (int, error) { return migrateUsers(ctx, myDB, dst) }},
		{"match_ratings", func() (int, error) { return migrateRatings(ctx, myDB, dst) }},
		{"cached_matches", func() (int, error) { return migrateCachedMatches(ctx, myDB, dst) }},
	}
	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("migrate %s: %v", s.name, err)
		}
		log.Printf("%-15s  %d rows migrated", s.name, n)
	}
	log.Println("migration complete")
}

// --- helpers ---

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullStr(n sql.NullString) string {
	if !n.Valid {
		return ""
	}
	return n.String
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

func nullTime(n sql.NullTime) time.Time {
	if !n.Valid {
		return time.Now().UTC()
	}
	return n.Time.UTC()
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, dst *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := dst.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

// copyRows runs query against MySQL and inserts the scanned rows in batches.
func copyRows[T any](ctx context.Context, myDB *sql.DB, dst *bun.DB, query string, scan func(*sql.Rows) (T, error)) (int, error) {
	rows, err := myDB.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []T
	total := 0
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, dst, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, dst, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

// --- per-table migrations ---

func migrateUsers(ctx context.Context, myDB *sql.DB, dst *bun.DB) (int, error) {
	return copyRows(ctx, myDB, dst, "SELECT username, password FROM users",
		func(rows *sql.Rows) (models.User, error) {
			r := models.User{CreatedAt: time.Now().UTC()}
			err := rows.Scan(&r.Username, &r.Password)
			return r, err
		})
}

func migrateRatings(ctx context.Context, myDB *sql.DB, dst *bun.DB) (int, error) {
	return copyRows(ctx, myDB, dst,
		"SELECT match_id, title, score, created_at, updated_at FROM match_ratings",
		func(rows *sql.Rows) (models.MatchRating, error) {
			var (
				r                models.MatchRating
				title            sql.NullString
				created, updated sql.NullTime
			)
			if err := rows.Scan(&r.MatchID, &title, &r.Score, &created, &updated); err != nil {
				return r, err
			}
			r.Title = nullStr(title)
			r.CreatedAt = nullTime(created)
			r.UpdatedAt = nullTime(updated)
			return r, nil
		})
}

func migrateCachedMatches(ctx context.Context, myDB *sql.DB, dst *bun.DB) (int, error) {
	return copyRows(ctx, myDB, dst,
		`SELECT match_id, title, final_score, days_ago, days_ago_pretty, tournament,
		        radiant_team_name, dire_team_name, duration_min, updated_at
		 FROM cached_matches`,
		func(rows *sql.Rows) (models.CachedMatch, error) {
			var (
				r                         models.CachedMatch
				title, pretty, tournament sql.NullString
				radiant, dire             sql.NullString
				finalScore, daysAgo       sql.NullFloat64
				duration                  sql.NullInt64
				updated                   sql.NullTime
			)
			err := rows.Scan(&r.MatchID, &title, &finalScore, &daysAgo, &pretty, &tournament,
				&radiant, &dire, &duration, &updated)
			if err != nil {
				return r, err
			}
			r.Title = nullStr(title)
			r.FinalScore = nullFloat(finalScore)
			r.DaysAgo = nullFloat(daysAgo)
			r.DaysAgoPretty = nullStr(pretty)
			r.Tournament = nullStr(tournament)
			r.RadiantTeamName = nullStr(radiant)
			r.DireTeamName = nullStr(dire)
			r.DurationMin = nullInt(duration)
			r.UpdatedAt = nullTime(updated)
			return r, nil
		})
}
