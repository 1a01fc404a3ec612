package features

import (
	"reflect"
	"testing"
	"time"

	"github.com/padraicbc/dotawatch/match"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func sampleMatch() match.Match {
	rankA, rankB := 2, 9
	return match.Match{
		MatchID:         7700000001,
		DurationSeconds: 3000,
		SideAWon:        true,
		GoldAdvantage:   match.Series{0, -16, -281, -2055, 4000, 6000},
		Teamfights:      match.Teamfights{{Start: 600, End: 640, Deaths: 3}, {Start: 1500, End: 1560, Deaths: 5}},
		Objectives: match.Objectives{
			{Type: match.ObjectiveFirstBlood, Time: 80},
			{Type: match.ObjectiveAegisStolen, Time: 2100},
		},
		BarracksStatusA: 63,
		BarracksStatusB: 0,
		ScoreA:          40,
		ScoreB:          35,
		TeamAName:       "Team Spirit",
		TeamBName:       "Tundra Esports",
		TeamARank:       &rankA,
		TeamBRank:       &rankB,
		Tournament:      "DreamLeague Season 23 presented by Intel",
		SeriesType:      1,
		ObservedAt:      now.Add(-36 * time.Hour),
	}
}

func TestExtract(t *testing.T) {
	f := Extract(sampleMatch(), 2, now)

	if !f.LeadKnown || f.MinutesInLead != 1 {
		t.Errorf("lead: known=%v minutes=%d", f.LeadKnown, f.MinutesInLead)
	}
	if f.FirstFightSecond != 600 || f.FightFraction != 0.04 || f.AvgFightSeconds != 50 {
		t.Errorf("fights: %d %v %v", f.FirstFightSecond, f.FightFraction, f.AvgFightSeconds)
	}
	if f.Objectives.AegisSteals() != 1 || f.Objectives.FirstBlood != 1 {
		t.Errorf("objectives: %+v", f.Objectives)
	}
	if f.DurationMinutes != 50 || f.KillsPerMinute != 1.5 {
		t.Errorf("duration %v kpm %v", f.DurationMinutes, f.KillsPerMinute)
	}
	if f.DaysAgo != -2 || f.TimeAgo != "2 days ago" {
		t.Errorf("recency: %d %q", f.DaysAgo, f.TimeAgo)
	}
	if want := "Team Spirit vs Tundra Esports game 2 DreamLeague Season 23"; f.Title != want {
		t.Errorf("title = %q, want %q", f.Title, want)
	}
	if f.BestOf != 3 || f.UnknownTeam() {
		t.Errorf("bestOf %d unknown %v", f.BestOf, f.UnknownTeam())
	}
	if !f.Comeback.Known || f.Comeback.WinnerBarracksDiff != 63 {
		t.Errorf("comeback %+v", f.Comeback)
	}
	if len(f.Fallbacks) != 0 {
		t.Errorf("unexpected fallbacks %+v", f.Fallbacks)
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	m := sampleMatch()
	a := Extract(m, 1, now)
	b := Extract(m, 1, now)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two extractions differ:\n%+v\n%+v", a, b)
	}
}

func TestExtractFallbacks(t *testing.T) {
	t.Run("no gold series", func(t *testing.T) {
		m := sampleMatch()
		m.GoldAdvantage = nil
		f := Extract(m, 1, now)
		if f.LeadKnown || f.MinutesInLead != 0 || f.MaxSwing != 0 || f.FractionSmallLead != 0 {
			t.Fatalf("got %+v", f)
		}
		if !hasFallback(f, match.FieldGoldAdvantage) {
			t.Error("missing gold advantage fallback")
		}
	})

	t.Run("empty teamfights", func(t *testing.T) {
		m := sampleMatch()
		m.Teamfights = match.Teamfights{}
		m.DurationSeconds = 3600
		f := Extract(m, 1, now)
		if f.FirstFightSecond != NoFightsSecond || f.FightFraction != 0 {
			t.Fatalf("first %d fraction %v", f.FirstFightSecond, f.FightFraction)
		}
	})

	t.Run("malformed teamfights", func(t *testing.T) {
		m := sampleMatch()
		m.Teamfights = nil
		m.Malformed = []string{match.FieldTeamfights}
		f := Extract(m, 1, now)
		if f.FirstFightSecond != MalformedFightsSecond || f.FightFraction != 0 {
			t.Fatalf("first %d fraction %v", f.FirstFightSecond, f.FightFraction)
		}
		if !hasFallback(f, match.FieldTeamfights) {
			t.Error("missing teamfight fallback")
		}
	})

	t.Run("zero duration", func(t *testing.T) {
		m := sampleMatch()
		m.DurationSeconds = 0
		f := Extract(m, 1, now)
		if f.KillsPerMinute != 0 || f.FightFraction != 0 {
			t.Fatalf("kpm %v fraction %v", f.KillsPerMinute, f.FightFraction)
		}
	})

	t.Run("absent barracks", func(t *testing.T) {
		m := sampleMatch()
		m.BarracksStatusA, m.BarracksStatusB = 0, 0
		m.BarracksUnknown = true
		f := Extract(m, 1, now)
		if f.Comeback.Known || f.Comeback.FullComeback() {
			t.Fatalf("comeback %+v", f.Comeback)
		}
		if !hasFallback(f, match.FieldBarracks) {
			t.Error("missing barracks fallback")
		}
	})

	t.Run("unknown team", func(t *testing.T) {
		m := sampleMatch()
		m.TeamBName = ""
		f := Extract(m, 1, now)
		if !f.UnknownTeam() || f.TeamB != match.Unknown {
			t.Fatalf("team b %q", f.TeamB)
		}
	})
}

func hasFallback(f Features, feature string) bool {
	for _, fb := range f.Fallbacks {
		if fb.Feature == feature {
			return true
		}
	}
	return false
}
