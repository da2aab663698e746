package numeric

import (
	"math"
	"sort"
)

// DefaultDomain is returned by PercentileDomain for an empty series.
var DefaultDomain = Domain{Min: -5, Max: 5}

// DegenerateEpsilon widens a zero-width domain on each side.
const DegenerateEpsilon = 0.5

// Domain is a closed axis interval.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Width returns Max-Min.
func (d Domain) Width() float64 { return d.Max - d.Min }

// PercentileDomain derives an axis domain that ignores outliers.  The values
// are sorted (on a copy), the elements at floor(n*lowP) and floor(n*highP),
// clamped to the last index, become the bounds, and each bound is pushed out
// by padFraction of the width.  Empty input yields DefaultDomain; a zero
// width domain is widened by DegenerateEpsilon on both sides.
func PercentileDomain(values []float64, lowP, highP, padFraction float64) Domain {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return DefaultDomain
	}
	sort.Float64s(finite)

	lowP, highP = Clamp(lowP, 0, 1), Clamp(highP, 0, 1)
	if lowP > highP {
		lowP, highP = highP, lowP
	}

	lo := finite[percentileIndex(len(finite), lowP)]
	hi := finite[percentileIndex(len(finite), highP)]

	pad := math.Max(padFraction, 0) * (hi - lo)
	d := Domain{Min: lo - pad, Max: hi + pad}
	if d.Width() == 0 {
		d.Min -= DegenerateEpsilon
		d.Max += DegenerateEpsilon
	}
	return d
}

// percentileIndex is floor(n*p) clamped to [0, n-1].
func percentileIndex(n int, p float64) int {
	idx := int(math.Floor(float64(n) * p))
	if idx > n-1 {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
