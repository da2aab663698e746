package numeric

import (
	"math"
	"sort"
	"strconv"
)

// DefaultBinTolerance is the absolute tolerance under which two bin starts
// are treated as the same boundary.
const DefaultBinTolerance = 1e-4

// Bin is one histogram bucket as returned by the statistics service.
type Bin struct {
	Start float64 `json:"bin_start"`
	End   float64 `json:"bin_end"`
	Count int     `json:"count"`
}

// CategoryHistogram is one category's histogram.
type CategoryHistogram struct {
	Category string
	Bins     []Bin
}

// BinRow is one aligned bin: the shared boundary and every category's count.
type BinRow struct {
	Start  float64        `json:"start"`
	End    float64        `json:"end"`
	Label  string         `json:"label"`
	Counts map[string]int `json:"counts"`
}

// Total sums the row across categories.
func (r BinRow) Total() int {
	total := 0
	for _, c := range r.Counts {
		total += c
	}
	return total
}

// AlignHistogramBins reconciles independently computed histograms onto one
// shared set of bin boundaries.  The union of bin starts (equal within
// tolerance) is sorted ascending and every row carries a count for every
// input category, 0 where that category has no bin at the boundary.  A
// non-positive tolerance means DefaultBinTolerance.
func AlignHistogramBins(hists []CategoryHistogram, tolerance float64) []BinRow {
	if tolerance <= 0 {
		tolerance = DefaultBinTolerance
	}

	var starts []float64
	for _, h := range hists {
		for _, b := range h.Bins {
			starts = append(starts, b.Start)
		}
	}
	if len(starts) == 0 {
		return nil
	}
	sort.Float64s(starts)

	// Collapse sorted starts into boundaries.  A boundary absorbs any start
	// within tolerance of its first member.
	boundaries := []float64{starts[0]}
	for _, s := range starts[1:] {
		if math.Abs(s-boundaries[len(boundaries)-1]) >= tolerance {
			boundaries = append(boundaries, s)
		}
	}

	rows := make([]BinRow, len(boundaries))
	for i, start := range boundaries {
		rows[i] = BinRow{
			Start:  start,
			End:    start,
			Label:  strconv.FormatFloat(start, 'f', 3, 64),
			Counts: make(map[string]int, len(hists)),
		}
		for _, h := range hists {
			rows[i].Counts[h.Category] = 0
		}
	}

	for _, h := range hists {
		for _, b := range h.Bins {
			i := nearestBoundary(boundaries, b.Start)
			rows[i].Counts[h.Category] += b.Count
			if b.End > rows[i].End {
				rows[i].End = b.End
			}
		}
	}
	return rows
}

// nearestBoundary returns the index of the last boundary ≤ v (with the
// boundaries sorted), which is the boundary v was collapsed into.
func nearestBoundary(boundaries []float64, v float64) int {
	i := sort.Search(len(boundaries), func(i int) bool { return boundaries[i] > v })
	if i == 0 {
		return 0
	}
	return i - 1
}
