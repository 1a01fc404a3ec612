package scoring

import "math"

// Linear maps a feature onto a sub-score by interpolating between two points
// and clamping outside the domain. The domain may map onto a decreasing range.
type Linear struct {
	Lo, Hi       float64
	OutLo, OutHi float64
	// Below and Above override the value used outside the domain. When nil the
	// nearest range endpoint is used.
	Below *float64
	Above *float64
}

// Map returns the sub-score for x. NaN maps to 0.
func (l Linear) Map(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x < l.Lo:
		if l.Below != nil {
			return *l.Below
		}
		return l.OutLo
	case x > l.Hi:
		if l.Above != nil {
			return *l.Above
		}
		return l.OutHi
	case l.Hi == l.Lo:
		return l.OutLo
	}
	return l.OutLo + (x-l.Lo)/(l.Hi-l.Lo)*(l.OutHi-l.OutLo)
}

// Bounds returns the smallest and largest value Map can produce.
func (l Linear) Bounds() (lo, hi float64) {
	lo, hi = math.Min(l.OutLo, l.OutHi), math.Max(l.OutLo, l.OutHi)
	for _, o := range []*float64{l.Below, l.Above} {
		if o != nil {
			lo, hi = math.Min(lo, *o), math.Max(hi, *o)
		}
	}
	return math.Min(lo, 0), hi
}

func clampTo(v float64) *float64 { return &v }

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
