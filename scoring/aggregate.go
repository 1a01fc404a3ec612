package scoring

import "math"

// Result is the aggregated score of one match.
type Result struct {
	// Interesting is the strongest of the "dramatic moment" sub-scores.
	Interesting float64 `json:"interesting_score"`
	FinalTotal  float64 `json:"final_score_total"`
	// Final is the 0-100 ranking value after any unknown-team penalty.
	Final float64 `json:"final_score"`
	// Unpenalized is Final before the unknown-team penalty.
	Unpenalized float64 `json:"-"`
	WholeGame   float64 `json:"whole_game_score"`
	Penalized   bool    `json:"penalized"`
}

// Aggregator combines sub-scores into the final ranking values.
type Aggregator struct {
	cfg Config
}

// NewAggregator returns an Aggregator for cfg.
func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Aggregate computes the final and whole-game scores. unknownTeam applies the
// penalty factor to the final score after rounding.
func (a *Aggregator) Aggregate(s SubScores, unknownTeam bool) Result {
	r := Result{Interesting: a.maxOf(s, a.cfg.InterestingComponents, 0)}

	for _, w := range a.cfg.FinalComponents {
		r.FinalTotal += a.value(s, r.Interesting, w.Component) * w.Weight
	}
	if total := a.cfg.TotalWeight(); total > 0 {
		r.Unpenalized = math.RoundToEven(r.FinalTotal / total * 100)
	}
	r.Final = r.Unpenalized
	if unknownTeam {
		r.Final = r.Unpenalized * a.cfg.UnknownTeamFactor
		r.Penalized = true
	}

	r.WholeGame = Round2(a.maxOf(s, a.cfg.WholeGameComponents, r.Interesting))
	return r
}

func (a *Aggregator) value(s SubScores, interesting float64, c Component) float64 {
	if c == Interesting {
		return interesting
	}
	return s.Get(c)
}

func (a *Aggregator) maxOf(s SubScores, comps []Component, interesting float64) float64 {
	best := 0.0
	for i, c := range comps {
		v := a.value(s, interesting, c)
		if i == 0 || v > best {
			best = v
		}
	}
	return best
}
