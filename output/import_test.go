package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/padraicbc/dotawatch/pipeline"
)

var importNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func TestReadCSV(t *testing.T) {
	in := strings.Join([]string{
		"match_id,title,final_score,days_ago,date,duration,tournament",
		"7812345678.0,A vs B - Game 1 - EWC,64,-2,,41,EWC",
		"7812345679,C vs D - Game 1 - EWC,55,-45,,38,EWC",
		",no id,10,-1,,30,EWC",
		"7812345680,E vs F - Game 2 - EWC,nan,,2024-05-10T09:00:00Z,33.6,EWC",
		"7812345681,G vs H - Game 1 - EWC,20,,2024-03-01,30,EWC",
	}, "\n")

	rows, stats, err := ReadCSV(strings.NewReader(in), 30, importNow)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Read != 5 || stats.Kept != 2 || stats.TooOld != 2 || stats.NoMatchID != 1 {
		t.Fatalf("stats %+v", stats)
	}

	first := rows[0]
	if first.MatchID != "7812345678" || *first.FinalScore != 64 || *first.DurationMin != 41 {
		t.Errorf("first row %+v", first)
	}
	if first.DaysAgoPretty != "2 days ago" {
		t.Errorf("pretty from days_ago = %q", first.DaysAgoPretty)
	}

	second := rows[1]
	if second.FinalScore != nil {
		t.Errorf("nan score kept: %v", *second.FinalScore)
	}
	if *second.DurationMin != 34 || second.DaysAgoPretty != "3 hours ago" {
		t.Errorf("second row %+v", second)
	}
}

func TestReadCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	sc := scoredMatch(7812345678, 64, 95)
	sc.Match.ObservedAt = importNow.Add(-18 * time.Hour)
	if err := WriteCSV(&buf, []pipeline.Scored{sc}); err != nil {
		t.Fatal(err)
	}
	rows, _, err := ReadCSV(&buf, 30, importNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows", len(rows))
	}
	r := rows[0]
	if r.FirstFightAt != "1:35" || *r.WholeGameScore != 0.75 || !r.ObservedAt.Equal(sc.Match.ObservedAt) {
		t.Errorf("row %+v", r)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, _, err := ReadCSV(strings.NewReader(""), 30, importNow); err == nil {
		t.Error("expected error for missing header")
	}
}
