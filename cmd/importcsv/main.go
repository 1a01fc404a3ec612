// cmd/importcsv/main.go
// Loads a scores CSV, as written by cmd/scores -csv, into cached_matches.
//
// Usage:
//
//	go run ./cmd/importcsv -file scores_all_cols.csv -days 30
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/uptrace/bun"

	"github.com/padraicbc/dotawatch/config"
	bundb "github.com/padraicbc/dotawatch/db"
	"github.com/padraicbc/dotawatch/output"
)

func main() {
	path := flag.String("file", envOr("SCORES_CSV_PATH", "scores_all_cols.csv"), "CSV file to import")
	days := flag.Int("days", 30, "skip matches more than this many days old")
	flag.Parse()

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	rows, stats, err := output.ReadCSV(f, *days, time.Now())
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("read %d rows from %s: %d kept, %d older than %d days, %d without match_id",
		stats.Read, *path, stats.Kept, stats.TooOld, *days, stats.NoMatchID)

	ctx := context.Background()
	cfg := config.Load()
	db, err := bundb.Setup(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return bundb.UpsertCachedMatches(ctx, tx, rows)
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("upserted %d rows into cached_matches", len(rows))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
