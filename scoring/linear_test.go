package scoring

import (
	"math"
	"testing"
)

func TestLinearMap(t *testing.T) {
	one := 1.0
	tests := []struct {
		name string
		l    Linear
		x    float64
		want float64
	}{
		{name: "midpoint", l: Linear{Lo: 0, Hi: 10, OutLo: 0, OutHi: 1}, x: 5, want: 0.5},
		{name: "decreasing", l: Linear{Lo: 5, Hi: 10, OutLo: 1, OutHi: 0}, x: 6, want: 0.8},
		{name: "below clamps to low end", l: Linear{Lo: 5, Hi: 10, OutLo: 1, OutHi: 0}, x: 2, want: 1},
		{name: "above clamps to high end", l: Linear{Lo: 5, Hi: 10, OutLo: 1, OutHi: 0}, x: 20, want: 0},
		{name: "below override", l: Linear{Lo: -36, Hi: 63, OutLo: 0.8, OutHi: 0, Below: &one}, x: -40, want: 1},
		{name: "nan", l: Linear{Lo: 0, Hi: 1, OutLo: 0, OutHi: 1}, x: math.NaN(), want: 0},
		{name: "degenerate domain", l: Linear{Lo: 3, Hi: 3, OutLo: 0.25, OutHi: 1}, x: 3, want: 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.l.Map(tt.x); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Map(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestMappingsStayInBounds(t *testing.T) {
	m := DefaultConfig().Mappings
	all := map[string]Linear{
		"fight_fraction": m.FightFraction, "min_in_lead": m.MinutesInLead,
		"duration": m.Duration, "kills_per_min": m.KillsPerMinute,
		"small_lead": m.SmallLead, "swing": m.Swing,
		"days_ago": m.DaysAgo, "comeback": m.Comeback,
	}
	inputs := []float64{-1e6, -100, -36, -1, 0, 0.05, 0.5, 1, 5, 7.5, 10, 45, 63, 64, 7000, 12000, 1e6}
	for name, l := range all {
		lo, hi := l.Bounds()
		for _, x := range inputs {
			v := l.Map(x)
			if v < lo || v > hi || v < 0 || v > 1 {
				t.Errorf("%s: Map(%v) = %v outside [%v, %v]", name, x, v, lo, hi)
			}
		}
	}
}

func TestLinearMonotonic(t *testing.T) {
	m := DefaultConfig().Mappings
	increasing := []Linear{m.FightFraction, m.Duration, m.KillsPerMinute, m.SmallLead, m.Swing, m.DaysAgo}
	for i, l := range increasing {
		prev := math.Inf(-1)
		for x := l.Lo - (l.Hi - l.Lo); x <= l.Hi+(l.Hi-l.Lo); x += (l.Hi - l.Lo) / 50 {
			v := l.Map(x)
			if v < prev {
				t.Fatalf("mapping %d not monotonic at %v: %v < %v", i, x, v, prev)
			}
			prev = v
		}
	}
}

func TestRound2(t *testing.T) {
	for in, want := range map[float64]float64{0.123: 0.12, 0.125: 0.13, 1: 1, 0.8: 0.8} {
		if got := Round2(in); got != want {
			t.Errorf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}
