package features

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/padraicbc/dotawatch/match"
)

// sponsorMarkers cut a tournament name at the first occurrence.
var sponsorMarkers = []string{"presented", "powered"}

// CleanTournament strips sponsor suffixes such as "presented by X".
func CleanTournament(name string) string {
	for _, marker := range sponsorMarkers {
		if i := strings.Index(name, marker); i >= 0 {
			name = name[:i]
		}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return match.Unknown
	}
	return name
}

// Title builds the display title "A vs B game N tournament".
func Title(teamA, teamB string, gameNum int, tournament string) string {
	return fmt.Sprintf("%s vs %s game %d %s",
		orUnknown(teamA), orUnknown(teamB), gameNum, CleanTournament(tournament))
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return match.Unknown
	}
	return s
}

// DaysAgo returns whole days from now to observed, floored, so a game played
// twelve hours ago is -1 and a game starting tomorrow is positive.
func DaysAgo(observed, now time.Time) int {
	return int(math.Floor(observed.Sub(now).Hours() / 24))
}

// TimeAgo renders how long ago a game was played, e.g. "3 hours ago".
func TimeAgo(observed, now time.Time) string {
	elapsed := now.Sub(observed)
	if elapsed < 0 {
		return "today"
	}
	days := elapsed.Hours() / 24
	switch {
	case days < 1:
		hours := int(math.Max(1, math.Round(elapsed.Hours())))
		return plural(hours, "hour")
	case days < 7:
		return plural(int(math.Round(days)), "day")
	case days < 30:
		return plural(int(math.Round(days/7)), "week")
	}
	return plural(int(math.Round(days/30)), "month")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// DurationMinutes rounds the game length to whole minutes, halves to even.
func DurationMinutes(durationSeconds int) float64 {
	return math.RoundToEven(float64(durationSeconds) / 60)
}

// KillsPerMinute is total kills over rounded duration; 0 for zero-length games.
func KillsPerMinute(totalKills int, durationMinutes float64) float64 {
	if durationMinutes <= 0 {
		return 0
	}
	return float64(totalKills) / durationMinutes
}

// GameNumbers numbers each game inside its series by start time. Games sharing
// a start time share the lower number. Games outside a series are game 1.
// The result is keyed by match id.
func GameNumbers(batch []match.Match) map[int64]int {
	bySeries := make(map[int64][]time.Time)
	for _, m := range batch {
		if m.SeriesID == 0 {
			continue
		}
		bySeries[m.SeriesID] = append(bySeries[m.SeriesID], m.ObservedAt)
	}
	for _, starts := range bySeries {
		sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	}

	out := make(map[int64]int, len(batch))
	for _, m := range batch {
		if m.SeriesID == 0 {
			out[m.MatchID] = 1
			continue
		}
		starts := bySeries[m.SeriesID]
		earlier := sort.Search(len(starts), func(i int) bool { return !starts[i].Before(m.ObservedAt) })
		out[m.MatchID] = earlier + 1
	}
	return out
}
