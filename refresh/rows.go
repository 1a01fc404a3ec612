package refresh

import (
	"strconv"

	"github.com/padraicbc/dotawatch/features"
	"github.com/padraicbc/dotawatch/models"
	"github.com/padraicbc/dotawatch/pipeline"
)

// Rows converts ranked matches into cache rows, keeping their order.
func Rows(scored []pipeline.Scored) []models.CachedMatch {
	rows := make([]models.CachedMatch, 0, len(scored))
	for _, sc := range scored {
		rows = append(rows, Row(sc))
	}
	return rows
}

// Row converts one ranked match into its cache row.
func Row(sc pipeline.Scored) models.CachedMatch {
	f := sc.Features
	final := sc.Result.Final
	whole := sc.Result.WholeGame
	days := float64(f.DaysAgo)
	minutes := int(f.DurationMinutes)

	row := models.CachedMatch{
		MatchID:         strconv.FormatInt(sc.Match.MatchID, 10),
		Title:           f.Title,
		FinalScore:      &final,
		WholeGameScore:  &whole,
		DaysAgo:         &days,
		DaysAgoPretty:   f.TimeAgo,
		Tournament:      f.Tournament,
		RadiantTeamName: f.TeamA,
		DireTeamName:    f.TeamB,
		DurationMin:     &minutes,
		ObservedAt:      sc.Match.ObservedAt,
	}
	if f.FirstFightSecond != features.NoFightsSecond {
		row.FirstFightAt = features.FormatClock(f.FirstFightSecond)
	}
	return row
}
