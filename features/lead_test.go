package features

import (
	"testing"

	"github.com/padraicbc/dotawatch/match"
)

func TestMinutesInLead(t *testing.T) {
	tests := []struct {
		name     string
		series   match.Series
		sideAWon bool
		want     int
	}{
		{name: "flip near the end", series: match.Series{0, -16, -281, -2055, 4000, 6000}, sideAWon: true, want: 1},
		{name: "flip earlier", series: match.Series{0, 500, -300, -900, -1500, -2000, -3000}, sideAWon: false, want: 4},
		{name: "leader won wire to wire", series: match.Series{100, 200, 300}, sideAWon: true, want: 3},
		{name: "leader lost without a flip", series: match.Series{100, 200}, sideAWon: false, want: 0},
		{name: "empty", series: nil, sideAWon: true, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MinutesInLead(tt.series, tt.sideAWon); got != tt.want {
				t.Errorf("MinutesInLead = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMaxSwing(t *testing.T) {
	positive := make(match.Series, 25)
	positive[10], positive[11], positive[12] = 8000, 3000, -2000

	negative := make(match.Series, 25)
	negative[10], negative[14] = -6000, 1000

	early := make(match.Series, 20)
	early[3] = 9000

	partial := make(match.Series, 25)
	partial[12], partial[13] = 9000, 6000

	tests := []struct {
		name   string
		series match.Series
		want   int
	}{
		{name: "lead thrown past zero stops at zero", series: positive, want: 8000},
		{name: "negative lead", series: negative, want: 6000},
		{name: "laning stage ignored", series: early, want: 0},
		{name: "partial reversal", series: partial, want: 9000},
		{name: "short game", series: match.Series{0, 9000, -9000}, want: 0},
		{name: "empty", series: nil, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxSwing(tt.series); got != tt.want {
				t.Errorf("MaxSwing = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFractionSmallLead(t *testing.T) {
	tests := []struct {
		name   string
		series match.Series
		want   float64
	}{
		{name: "first five minutes skipped", series: make(match.Series, 10), want: 0.5},
		{name: "shorter than skip", series: match.Series{1, 2, 3}, want: 0},
		{name: "big leads", series: match.Series{0, 0, 0, 0, 0, 6000, -7000, 100, 200, 9000}, want: 0.2},
		{name: "empty", series: nil, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FractionSmallLead(tt.series); got != tt.want {
				t.Errorf("FractionSmallLead = %v, want %v", got, tt.want)
			}
		})
	}
}
