package scoring

import (
	"strings"

	"github.com/padraicbc/dotawatch/features"
)

// SubScores holds every mapped sub-score of a match, rounded to 2 places.
type SubScores struct {
	SmallLead       float64 `json:"lead_is_small_score"`
	MinutesInLead   float64 `json:"min_in_lead_score"`
	Swing           float64 `json:"swing_score"`
	Comeback        float64 `json:"barracks_comeback_score"`
	FightFraction   float64 `json:"fight_fraction_score"`
	Duration        float64 `json:"duration_min_score"`
	KillsPerMinute  float64 `json:"kills_per_min_score"`
	DaysAgo         float64 `json:"days_ago_score"`
	GoodTeamPlaying float64 `json:"good_team_playing_score"`
	AegisSteals     float64 `json:"aegis_steals_score"`
}

// Get returns the named sub-score. Interesting is not a mapped sub-score and
// returns 0 here; use Result.Interesting.
func (s SubScores) Get(c Component) float64 {
	switch c {
	case SmallLead:
		return s.SmallLead
	case MinutesInLead:
		return s.MinutesInLead
	case Swing:
		return s.Swing
	case Comeback:
		return s.Comeback
	case FightFraction:
		return s.FightFraction
	case Duration:
		return s.Duration
	case KillsPerMinute:
		return s.KillsPerMinute
	case DaysAgo:
		return s.DaysAgo
	case GoodTeamPlaying:
		return s.GoodTeamPlaying
	case AegisSteals:
		return s.AegisSteals
	}
	return 0
}

// Mapper converts features into sub-scores.
type Mapper struct {
	cfg Config
}

// NewMapper returns a Mapper for cfg.
func NewMapper(cfg Config) *Mapper {
	return &Mapper{cfg: cfg}
}

// Map scores f. It is pure and safe for concurrent use.
func (mp *Mapper) Map(f features.Features) SubScores {
	m := mp.cfg.Mappings
	s := SubScores{
		FightFraction:  m.FightFraction.Map(f.FightFraction),
		Duration:       m.Duration.Map(f.DurationMinutes),
		KillsPerMinute: m.KillsPerMinute.Map(f.KillsPerMinute),
		Swing:          m.Swing.Map(float64(f.MaxSwing)),
		DaysAgo:        m.DaysAgo.Map(float64(f.DaysAgo)),
	}

	// Unknown barracks cannot show a comeback.
	if f.Comeback.Known {
		s.Comeback = m.Comeback.Map(float64(f.Comeback.WinnerBarracksDiff))
	}

	// Without a gold series there is no lead to speak of.
	if f.LeadKnown {
		s.MinutesInLead = m.MinutesInLead.Map(float64(f.MinutesInLead))
	}

	small := f.FractionSmallLead
	if small == 1 {
		// a lead that was small every minute is treated as no data
		small = 0
	}
	s.SmallLead = m.SmallLead.Map(small)

	if f.Comeback.FullComeback() {
		s.Comeback = 1
	}
	if f.Objectives.AegisSteals() > 0 {
		s.AegisSteals = 1
	}
	s.GoodTeamPlaying = mp.goodTeamPlaying(f.Title, f.TeamARank, f.TeamBRank)

	return s.rounded()
}

func (mp *Mapper) goodTeamPlaying(title string, rankA, rankB *int) float64 {
	lower := strings.ToLower(title)
	for _, team := range mp.cfg.TeamsILike {
		team = strings.ToLower(strings.TrimSpace(team))
		if team != "" && strings.Contains(lower, team) {
			return 1
		}
	}
	return GoodTeamScore(mp.cfg.GoodTeamTiers, rankA, rankB)
}

// GoodTeamScore is a step function over the two team ranks. A missing rank is
// ignored, so a single known rank counts as both; no ranks scores 0.
func GoodTeamScore(tiers []Tier, rankA, rankB *int) float64 {
	var best, worst int
	switch {
	case rankA != nil && rankB != nil:
		best, worst = *rankA, *rankB
		if best > worst {
			best, worst = worst, best
		}
	case rankA != nil:
		best, worst = *rankA, *rankA
	case rankB != nil:
		best, worst = *rankB, *rankB
	default:
		return 0
	}
	for _, t := range tiers {
		if t.BothBelow > 0 && worst < t.BothBelow {
			return t.Score
		}
		if t.EitherBelow > 0 && best < t.EitherBelow {
			return t.Score
		}
	}
	return 0
}

func (s SubScores) rounded() SubScores {
	return SubScores{
		SmallLead:       Round2(s.SmallLead),
		MinutesInLead:   Round2(s.MinutesInLead),
		Swing:           Round2(s.Swing),
		Comeback:        Round2(s.Comeback),
		FightFraction:   Round2(s.FightFraction),
		Duration:        Round2(s.Duration),
		KillsPerMinute:  Round2(s.KillsPerMinute),
		DaysAgo:         Round2(s.DaysAgo),
		GoodTeamPlaying: Round2(s.GoodTeamPlaying),
		AegisSteals:     Round2(s.AegisSteals),
	}
}
