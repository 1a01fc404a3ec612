// cmd/dbping/main.go
// Checks database connectivity and reports the ratings row count.
//
// Usage:
//
//	go run ./cmd/dbping
package main

import (
	"context"
	"log"
	"time"

	"github.com/padraicbc/dotawatch/config"
	bundb "github.com/padraicbc/dotawatch/db"
	"github.com/padraicbc/dotawatch/models"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.Load()
	log.Printf("database: %s", cfg.MaskedDSN())

	db, err := bundb.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf("connection failed: %v", err)
	}
	defer db.Close()

	var one int
	if err := db.NewSelect().ColumnExpr("1").Scan(ctx, &one); err != nil {
		log.Fatalf("SELECT 1 failed: %v", err)
	}
	log.Printf("connection OK, SELECT 1 -> %d", one)

	n, err := db.NewSelect().Model((*models.MatchRating)(nil)).Count(ctx)
	if err != nil {
		log.Fatalf("match_ratings not accessible: %v", err)
	}
	log.Printf("match_ratings row count: %d", n)

	cached, err := bundb.CountCachedMatches(ctx, db)
	if err != nil {
		log.Fatalf("cached_matches not accessible: %v", err)
	}
	log.Printf("cached_matches row count: %d", cached)
}
