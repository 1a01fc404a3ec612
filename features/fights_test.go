package features

import (
	"math"
	"testing"

	"github.com/padraicbc/dotawatch/match"
)

func TestTeamfightStats(t *testing.T) {
	t.Run("no fights", func(t *testing.T) {
		st := TeamfightStats(match.Teamfights{}, 3600)
		if st.FirstFightSecond != NoFightsSecond || st.FightFraction != 0 || st.Count != 0 {
			t.Fatalf("got %+v", st)
		}
	})

	t.Run("unordered fights", func(t *testing.T) {
		st := TeamfightStats(match.Teamfights{{Start: 600, End: 630}, {Start: 300, End: 320}}, 2100)
		if st.FirstFightSecond != 300 {
			t.Errorf("first = %d, want 300", st.FirstFightSecond)
		}
		if math.Abs(st.FightFraction-50.0/1800) > 1e-9 {
			t.Errorf("fraction = %v", st.FightFraction)
		}
		if st.AvgFightSeconds != 25 || st.Count != 2 {
			t.Errorf("avg = %v count = %d", st.AvgFightSeconds, st.Count)
		}
	})

	t.Run("fight at the final second", func(t *testing.T) {
		st := TeamfightStats(match.Teamfights{{Start: 2000, End: 2010}}, 2000)
		if st.FightFraction != 0 {
			t.Errorf("degenerate window should give 0, got %v", st.FightFraction)
		}
	})
}

func TestCountObjectives(t *testing.T) {
	c := CountObjectives(match.Objectives{
		{Type: match.ObjectiveFirstBlood},
		{Type: match.ObjectiveBuildingKill},
		{Type: match.ObjectiveBuildingKill},
		{Type: match.ObjectiveAegis},
		{Type: match.ObjectiveAegisStolen},
		{Type: match.ObjectiveAegisDenied},
		{Type: match.ObjectiveRoshanKill},
		{Type: match.ObjectiveMinibossKill},
		{Type: match.ObjectiveCourierLost},
		{Type: "CHAT_MESSAGE_SOMETHING_NEW"},
	})
	want := ObjectiveCounts{FirstBlood: 1, BuildingKills: 2, Aegis: 1, AegisStolen: 1,
		AegisDenied: 1, RoshanKills: 1, MinibossKills: 1, CourierKills: 1}
	if c != want {
		t.Fatalf("got %+v, want %+v", c, want)
	}
	if c.AegisSteals() != 2 {
		t.Errorf("AegisSteals = %d", c.AegisSteals())
	}
}

func TestComeback(t *testing.T) {
	tests := []struct {
		name         string
		a, b         int
		aWon         bool
		lost, diff   int
		fullComeback bool
	}{
		{name: "mega creeps comeback", a: 0, b: 63, aWon: true, lost: 63, diff: -63, fullComeback: true},
		{name: "clean win", a: 63, b: 12, aWon: true, lost: 0, diff: 51},
		{name: "dire win", a: 0, b: 48, aWon: false, lost: 15, diff: 48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Comeback(tt.a, tt.b, tt.aWon)
			if !c.Known || c.WinnerBarracksLost != tt.lost || c.WinnerBarracksDiff != tt.diff {
				t.Errorf("got %+v", c)
			}
			if c.FullComeback() != tt.fullComeback {
				t.Errorf("FullComeback = %v", c.FullComeback())
			}
		})
	}

	if (ComebackMargin{WinnerBarracksLost: fullBarracks}).FullComeback() {
		t.Error("unknown margin reported a full comeback")
	}
}

func TestFormatClock(t *testing.T) {
	for in, want := range map[int]string{0: "0:00", 75: "1:15", 605: "10:05", -3: "0:00"} {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}
