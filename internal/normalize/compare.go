package normalize

import (
	"github.com/thumblens/thumblens/internal/domain/category"
	"github.com/thumblens/thumblens/internal/numeric"
	"github.com/thumblens/thumblens/pkg/client"
)

// Summary columns of the compare table.
const (
	ColCount  = "count"
	ColMean   = "mean"
	ColMedian = "median"
	ColStd    = "std"
	ColMin    = "min"
	ColMax    = "max"
)

// SummaryColumns lists the compare table columns in display order.
var SummaryColumns = []string{ColCount, ColMean, ColMedian, ColStd, ColMin, ColMax}

// CompareModel is the read model of the distribution comparison view.
type CompareModel struct {
	Feature string `json:"feature"`
	// Summary has one row per category of the compare payload.
	Summary Matrix `json:"summary"`
	// Histogram rows count only the categories in HistogramCategories.
	Histogram           []numeric.BinRow `json:"histogram"`
	HistogramCategories []string         `json:"histogram_categories"`
	// MissingHistograms are requested categories whose distribution was
	// not received.  They are not zero-filled.
	MissingHistograms []string `json:"missing_histograms,omitempty"`
}

// MergeCompare joins the compare payload with the per-category distribution
// payloads that arrived.  requested restricts the categories shown; empty
// means every category of the compare payload.  A nil compare payload gives
// an empty summary.
func MergeCompare(order *category.Order, compare *client.CompareStats, dists map[string]*client.Distribution, requested []string, tolerance float64) CompareModel {
	m := CompareModel{Summary: Matrix{Columns: SummaryColumns}}

	want := map[string]bool{}
	for _, r := range requested {
		want[r] = true
	}
	keep := func(c string) bool { return len(want) == 0 || want[c] }

	if compare != nil {
		m.Feature = compare.Feature
		for _, cat := range category.SortKeys(order, compare.Groups) {
			if !keep(cat) {
				continue
			}
			g := compare.Groups[cat]
			row := NewCategoryRow(cat)
			row.Values[ColCount] = Value(float64(g.Count))
			row.Values[ColMean] = Value(g.Mean)
			row.Values[ColMedian] = Value(g.Median)
			row.Values[ColStd] = Value(g.Std)
			row.Values[ColMin] = Value(g.Min)
			row.Values[ColMax] = Value(g.Max)
			m.Summary.Rows = append(m.Summary.Rows, row)
		}
	}

	candidates := requested
	if len(candidates) == 0 {
		for cat := range dists {
			candidates = append(candidates, cat)
		}
		if compare != nil {
			for cat := range compare.Groups {
				candidates = append(candidates, cat)
			}
		}
	}

	var hists []numeric.CategoryHistogram
	for _, cat := range order.Sort(candidates) {
		d := dists[cat]
		if d == nil {
			m.MissingHistograms = append(m.MissingHistograms, cat)
			continue
		}
		if m.Feature == "" {
			m.Feature = d.Feature
		}
		bins := make([]numeric.Bin, len(d.Histogram))
		for i, b := range d.Histogram {
			bins[i] = numeric.Bin{Start: b.BinStart, End: b.BinEnd, Count: b.Count}
		}
		hists = append(hists, numeric.CategoryHistogram{Category: cat, Bins: bins})
		m.HistogramCategories = append(m.HistogramCategories, cat)
	}
	m.Histogram = numeric.AlignHistogramBins(hists, tolerance)
	return m
}
