package numeric

import "math"

// NormalizeToBaseline expresses value as a fraction of baseline.  A zero
// baseline yields 0 rather than an infinite or NaN ratio.
func NormalizeToBaseline(value, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return value / baseline
}

// Percent returns part/total*100, or 0 when total is 0.
func Percent(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

// AbsGap is |value - reference|.
func AbsGap(value, reference float64) float64 {
	return math.Abs(value - reference)
}

// Clamp limits v to [lo, hi].  NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
