package features

import "github.com/padraicbc/dotawatch/match"

const (
	// Leads smaller than this are treated as noise.
	smallLeadGold = 5000
	// Swings are only looked for after the laning stage.
	swingSkipMinutes = 10
	// Trailing window in minutes, including the starting minute.
	swingWindow = 11
	// Minutes ignored at the start when measuring how long the lead stayed small.
	smallLeadSkipMinutes = 5
)

// MinutesInLead returns how many minutes, counted back from the end of the
// game, passed since the gold lead last changed sign. When the lead never
// changed sign and the side that always led went on to win, the whole series
// length is returned; when it never changed sign but the leader lost, 0.
func MinutesInLead(series match.Series, sideAWon bool) int {
	if len(series) == 0 {
		return 0
	}
	for i := len(series) - 1; i > 0; i-- {
		if sign(series[i]) != sign(series[i-1]) {
			return len(series) - 1 - i
		}
	}
	last := series[len(series)-1]
	if (sideAWon && last > 0) || (!sideAWon && last < 0) {
		return len(series)
	}
	return 0
}

// MaxSwing returns the largest lead reversal inside any trailing window,
// skipping the first minutes and minutes where the lead is below the noise
// floor. A reversal stops counting once the lead crosses zero.
func MaxSwing(series match.Series) int {
	maxSwing := 0
	for j := swingSkipMinutes; j < len(series)-1; j++ {
		val := series[j]
		if abs(val) < smallLeadGold {
			continue
		}
		window := len(series) - j
		if window > swingWindow {
			window = swingWindow
		}
		after := series[j+1 : j+window]

		var swing int
		if val > 0 {
			lowest := minOf(after)
			if lowest < 0 {
				lowest = 0
			}
			swing = val - lowest
		} else {
			highest := maxOf(after)
			if highest > 0 {
				highest = 0
			}
			swing = val - highest
		}
		if abs(swing) > maxSwing {
			maxSwing = abs(swing)
		}
	}
	return maxSwing
}

// FractionSmallLead returns the share of the game's minutes, after the first
// five, where neither side led by the noise floor or more. Games shorter than
// five minutes score 0.
func FractionSmallLead(series match.Series) float64 {
	if len(series) == 0 {
		return 0
	}
	start := smallLeadSkipMinutes
	if len(series) < smallLeadSkipMinutes {
		start = len(series)
	}
	small := 0
	for _, v := range series[start:] {
		if abs(v) < smallLeadGold {
			small++
		}
	}
	return float64(small) / float64(len(series))
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minOf(vs []int) int {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vs []int) int {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
