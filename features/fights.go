package features

import (
	"fmt"

	"github.com/padraicbc/dotawatch/match"
)

// First-fight sentinels. NoFightsSecond is used when the game has no fight
// data at all; MalformedFightsSecond when fight data existed but could not be read.
const (
	NoFightsSecond        = 10000
	MalformedFightsSecond = 30
)

// FightStats summarises the teamfights of a game.
type FightStats struct {
	FirstFightSecond int
	// FightFraction is seconds spent fighting over seconds played since the first fight.
	FightFraction   float64
	AvgFightSeconds float64
	Count           int
}

// TeamfightStats computes fight density. Fights are not assumed to be ordered.
func TeamfightStats(fights match.Teamfights, durationSeconds int) FightStats {
	if len(fights) == 0 {
		return FightStats{FirstFightSecond: NoFightsSecond}
	}
	fighting := 0
	first := fights[0].Start
	for _, f := range fights {
		fighting += f.End - f.Start
		if f.Start < first {
			first = f.Start
		}
	}
	st := FightStats{
		FirstFightSecond: first,
		AvgFightSeconds:  float64(fighting) / float64(len(fights)),
		Count:            len(fights),
	}
	if played := durationSeconds - first; played > 0 {
		st.FightFraction = float64(fighting) / float64(played)
	}
	return st
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// ObjectiveCounts tallies the known objective event types.
type ObjectiveCounts struct {
	FirstBlood    int `json:"first_blood"`
	BuildingKills int `json:"building_kills"`
	Aegis         int `json:"aegis"`
	AegisStolen   int `json:"aegis_stolen"`
	AegisDenied   int `json:"aegis_denied"`
	RoshanKills   int `json:"roshan_kills"`
	MinibossKills int `json:"miniboss_kills"`
	CourierKills  int `json:"courier_kills"`
}

// AegisSteals is the number of stolen or denied aegis events.
func (o ObjectiveCounts) AegisSteals() int {
	return o.AegisStolen + o.AegisDenied
}

// CountObjectives tallies known event types; anything else is ignored.
func CountObjectives(objs match.Objectives) ObjectiveCounts {
	var c ObjectiveCounts
	for _, o := range objs {
		switch o.Type {
		case match.ObjectiveFirstBlood:
			c.FirstBlood++
		case match.ObjectiveBuildingKill:
			c.BuildingKills++
		case match.ObjectiveAegis:
			c.Aegis++
		case match.ObjectiveAegisStolen:
			c.AegisStolen++
		case match.ObjectiveAegisDenied:
			c.AegisDenied++
		case match.ObjectiveRoshanKill:
			c.RoshanKills++
		case match.ObjectiveMinibossKill:
			c.MinibossKills++
		case match.ObjectiveCourierLost:
			c.CourierKills++
		}
	}
	return c
}

// fullBarracks is the barracks bitmask of a side that lost nothing.
const fullBarracks = 63

// ComebackMargin describes the barracks state of the winning side at game end.
type ComebackMargin struct {
	// Known is false when the barracks state was not reported.
	Known bool
	// WinnerBarracksLost is 63 minus the winner's status; 63 means every barracks fell.
	WinnerBarracksLost int
	// WinnerBarracksDiff is the winner's status minus the loser's.
	WinnerBarracksDiff int
}

// Comeback computes the winner's barracks deficit from the final bitmasks.
func Comeback(statusA, statusB int, sideAWon bool) ComebackMargin {
	winner, loser := statusB, statusA
	if sideAWon {
		winner, loser = statusA, statusB
	}
	return ComebackMargin{
		Known:              true,
		WinnerBarracksLost: fullBarracks - winner,
		WinnerBarracksDiff: winner - loser,
	}
}

// FullComeback reports whether the winner had lost every barracks.
func (c ComebackMargin) FullComeback() bool {
	return c.Known && c.WinnerBarracksLost == fullBarracks
}
