// Package output exports a scored batch as CSV or to a Google Sheet.
package output

import (
	"strconv"
	"time"

	"github.com/padraicbc/dotawatch/features"
	"github.com/padraicbc/dotawatch/pipeline"
)

// Header is the exported column order. cmd/importcsv reads the same names.
var Header = []string{
	"match_id", "title", "final_score", "whole_game_score", "interesting_score",
	"days_ago", "days_ago_pretty", "date", "tournament",
	"radiant_team_name", "dire_team_name", "duration_min", "first_fight_at",
	"lead_is_small_score", "min_in_lead_score", "swing_score", "barracks_comeback_score",
	"fight_fraction_score", "duration_min_score", "kills_per_min_score",
	"days_ago_score", "good_team_playing_score", "aegis_steals_score",
	"penalized",
}

// record flattens one scored match in Header order.
func record(sc pipeline.Scored) []string {
	f, s, r := sc.Features, sc.Scores, sc.Result
	firstFight := ""
	if f.FirstFightSecond != features.NoFightsSecond {
		firstFight = features.FormatClock(f.FirstFightSecond)
	}
	date := ""
	if !sc.Match.ObservedAt.IsZero() {
		date = sc.Match.ObservedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		strconv.FormatInt(sc.Match.MatchID, 10),
		f.Title,
		num(r.Final),
		num(r.WholeGame),
		num(r.Interesting),
		strconv.Itoa(f.DaysAgo),
		f.TimeAgo,
		date,
		f.Tournament,
		f.TeamA,
		f.TeamB,
		strconv.Itoa(int(f.DurationMinutes)),
		firstFight,
		num(s.SmallLead),
		num(s.MinutesInLead),
		num(s.Swing),
		num(s.Comeback),
		num(s.FightFraction),
		num(s.Duration),
		num(s.KillsPerMinute),
		num(s.DaysAgo),
		num(s.GoodTeamPlaying),
		num(s.AegisSteals),
		strconv.FormatBool(r.Penalized),
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
