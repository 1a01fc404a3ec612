// cmd/scores/main.go
// Fetches recent professional matches, scores them once and prints the
// ranking. Optionally writes the full scored batch to CSV or a Google Sheet.
//
// Usage:
//
//	go run ./cmd/scores -top 20 -csv scores_all_cols.csv -sheet
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/padraicbc/dotawatch/cache"
	"github.com/padraicbc/dotawatch/config"
	"github.com/padraicbc/dotawatch/features"
	applog "github.com/padraicbc/dotawatch/logger"
	"github.com/padraicbc/dotawatch/match"
	"github.com/padraicbc/dotawatch/opendota"
	"github.com/padraicbc/dotawatch/output"
	"github.com/padraicbc/dotawatch/pipeline"
)

func main() {
	top := flag.Int("top", 0, "rows to print (default TOP_N)")
	wholeGame := flag.Bool("whole-game", false, "order by whole-game score")
	csvPath := flag.String("csv", "", "write every scored match to this CSV file")
	toSheet := flag.Bool("sheet", false, "write every scored match to SHEET_URL")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	opts := []opendota.Option{opendota.WithAPIKey(cfg.OpenDotaAPIKey), opendota.WithLogger(logger)}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Printf("redis unavailable, fetching without cache: %v", err)
		} else {
			defer rc.Close()
			opts = append(opts, opendota.WithCache(rc, cfg.RawCacheTTL))
		}
	}
	client := opendota.NewClient(cfg.OpenDotaBaseURL, opts...)

	start := time.Now()
	matches, err := client.RecentMatches(ctx, cfg.Query(start))
	if err != nil {
		log.Fatalf("fetching matches: %v", err)
	}
	dir, err := client.Teams(ctx, cfg.TeamsLimit)
	if err != nil {
		log.Printf("fetching teams failed, names will be unknown: %v", err)
		dir = match.Directory{}
	}
	log.Printf("fetched %d matches and %d teams in %s", len(matches), len(dir), time.Since(start).Round(time.Millisecond))

	scorer, err := pipeline.NewScorer(cfg.Scoring(), pipeline.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}
	view := pipeline.Highlights
	if *wholeGame {
		view = pipeline.WholeGame
	}
	ranked := scorer.Rank(matches, dir, view)

	n := *top
	if n <= 0 {
		n = cfg.TopN
	}
	printTable(pipeline.Top(ranked, n))

	if *csvPath != "" {
		if err := writeCSV(*csvPath, ranked); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %d rows to %s", len(ranked), *csvPath)
	}
	if *toSheet {
		if err := writeSheet(ctx, cfg, ranked); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %d rows to sheet %s", len(ranked), cfg.SheetName)
	}
}

func printTable(ranked []pipeline.Scored) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tFINAL\tWHOLE\tFIRST FIGHT\tMIN\tPLAYED\tTITLE")
	for i, sc := range ranked {
		f := sc.Features
		firstFight := "-"
		if f.FirstFightSecond != features.NoFightsSecond {
			firstFight = features.FormatClock(f.FirstFightSecond)
		}
		fmt.Fprintf(w, "%d\t%.0f\t%.2f\t%s\t%.0f\t%s\t%s\n",
			i+1, sc.Result.Final, sc.Result.WholeGame, firstFight, f.DurationMinutes, f.TimeAgo, f.Title)
	}
	w.Flush()
}

func writeCSV(path string, ranked []pipeline.Scored) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := output.WriteCSV(f, ranked); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSheet(ctx context.Context, cfg *config.Config, ranked []pipeline.Scored) error {
	if cfg.GoogleCredentialsFile == "" || cfg.SheetURL == "" {
		return fmt.Errorf("GOOGLE_CREDENTIALS_FILE and SHEET_URL are required for -sheet")
	}
	creds, err := os.ReadFile(cfg.GoogleCredentialsFile)
	if err != nil {
		return fmt.Errorf("reading credentials: %w", err)
	}
	sc, err := output.NewSheetsClient(ctx, creds, cfg.SheetURL, cfg.SheetName)
	if err != nil {
		return err
	}
	return sc.WriteScores(ctx, ranked)
}
