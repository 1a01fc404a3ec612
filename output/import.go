package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/padraicbc/dotawatch/features"
	"github.com/padraicbc/dotawatch/models"
)

// ImportStats counts what ReadCSV did with each data row.
type ImportStats struct {
	Read      int
	Kept      int
	TooOld    int
	NoMatchID int
}

// ReadCSV reads a scores CSV, with any subset of the Header columns, into
// cache rows. Rows more than daysLimit days from now are dropped, judged by
// days_ago or else by date. A missing days_ago_pretty is derived the same way.
func ReadCSV(r io.Reader, daysLimit int, now time.Time) ([]models.CachedMatch, ImportStats, error) {
	var stats ImportStats
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("reading csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["duration_min"]; !ok {
		if i, ok := col["duration"]; ok {
			col["duration_min"] = i
		}
	}

	var out []models.CachedMatch
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("reading csv line %d: %w", stats.Read+2, err)
		}
		stats.Read++

		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		matchID := normaliseID(get("match_id"))
		if matchID == "" {
			stats.NoMatchID++
			continue
		}

		daysAgo := parseFloat(get("days_ago"))
		observed := parseDate(get("date"))
		switch {
		case daysAgo != nil:
			if math.Abs(*daysAgo) > float64(daysLimit) {
				stats.TooOld++
				continue
			}
		case !observed.IsZero():
			if observed.Before(now.AddDate(0, 0, -daysLimit)) {
				stats.TooOld++
				continue
			}
		}

		row := models.CachedMatch{
			MatchID:         matchID,
			Title:           get("title"),
			FinalScore:      parseFloat(get("final_score")),
			WholeGameScore:  parseFloat(get("whole_game_score")),
			DaysAgo:         daysAgo,
			DaysAgoPretty:   get("days_ago_pretty"),
			FirstFightAt:    get("first_fight_at"),
			Tournament:      get("tournament"),
			RadiantTeamName: get("radiant_team_name"),
			DireTeamName:    get("dire_team_name"),
			DurationMin:     parseInt(get("duration_min")),
			ObservedAt:      observed,
		}
		if row.DaysAgoPretty == "" {
			row.DaysAgoPretty = prettyAgo(daysAgo, observed, now)
		}
		out = append(out, row)
		stats.Kept++
	}
	return out, stats, nil
}

func prettyAgo(daysAgo *float64, observed, now time.Time) string {
	switch {
	case !observed.IsZero():
		return features.TimeAgo(observed, now)
	case daysAgo != nil:
		elapsed := time.Duration(math.Abs(*daysAgo) * 24 * float64(time.Hour))
		return features.TimeAgo(now.Add(-elapsed), now)
	}
	return ""
}

// normaliseID turns "7812345678.0", as written by spreadsheet tools, into "7812345678".
func normaliseID(s string) string {
	if whole, frac, ok := strings.Cut(s, "."); ok && strings.Trim(frac, "0") == "" {
		return whole
	}
	return s
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	f := parseFloat(s)
	if f == nil {
		return nil
	}
	v := int(math.Round(*f))
	return &v
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
