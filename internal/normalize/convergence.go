package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/thumblens/thumblens/internal/domain/category"
	"github.com/thumblens/thumblens/internal/numeric"
	"github.com/thumblens/thumblens/pkg/client"
)

// CIRow is one year's mean score with its confidence interval.
type CIRow struct {
	Year   string  `json:"year"`
	Mean   float64 `json:"mean"`
	CILow  float64 `json:"ci_low"`
	CIHigh float64 `json:"ci_high"`
	N      int     `json:"n"`
}

// ConvergenceCIRows returns the year confidence intervals in category order.
func ConvergenceCIRows(order *category.Order, tests *client.ConvergenceTests) []CIRow {
	if tests == nil {
		return nil
	}
	var out []CIRow
	for _, y := range category.SortKeys(order, tests.YearConfidenceIntervals) {
		if !category.IsYear(y) {
			continue
		}
		ci := tests.YearConfidenceIntervals[y]
		out = append(out, CIRow{Year: y, Mean: ci.Mean, CILow: ci.CILow, CIHigh: ci.CIHigh, N: ci.N})
	}
	return out
}

// similarityYears returns the year categories of the similarity payload.
func similarityYears(order *category.Order, sim *client.Similarity) []string {
	var years []string
	for _, c := range category.SortKeys(order, sim.Groups) {
		if category.IsYear(c) {
			years = append(years, c)
		}
	}
	return years
}

// FeatureGapRows measures, per year and feature, the distance between the
// year's mean and the reference centroid.  A gap is absent when either side
// is missing.
func FeatureGapRows(order *category.Order, sim *client.Similarity) Matrix {
	return featureRows(order, sim, numeric.AbsGap)
}

// FeatureRatioRows expresses each year's feature mean as a fraction of the
// reference centroid, so features with different units share one axis.
func FeatureRatioRows(order *category.Order, sim *client.Similarity) Matrix {
	return featureRows(order, sim, numeric.NormalizeToBaseline)
}

func featureRows(order *category.Order, sim *client.Similarity, fn func(value, reference float64) float64) Matrix {
	if sim == nil {
		return Matrix{}
	}
	m := Matrix{Columns: append([]string(nil), sim.FeatureNames...)}
	for _, y := range similarityYears(order, sim) {
		row := NewCategoryRow(y)
		for _, f := range sim.FeatureNames {
			ref, okRef := sim.Centroid[f]
			val, okVal := sim.FeatureTrends[f][y]
			if okRef && okVal {
				row.Values[f] = Value(fn(val, ref))
			} else {
				row.Values[f] = Absent
			}
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

// WeightedComparisonRows puts the weighted likeness (already 0-1) next to
// the similarity score scaled from 0-100 to 0-1, per year of the weighted
// payload.
func WeightedComparisonRows(order *category.Order, weighted *client.WeightedLikeness, sim *client.Similarity) Matrix {
	m := Matrix{Columns: []string{ColWeighted, ColSimilarity}}
	if weighted == nil {
		return m
	}
	for _, y := range category.SortKeys(order, weighted.Groups) {
		if !category.IsYear(y) {
			continue
		}
		row := NewCategoryRow(y)
		row.Values[ColWeighted] = Value(weighted.Groups[y].NormalizedMean)
		row.Values[ColSimilarity] = Absent
		if sim != nil {
			if g, ok := sim.Groups[y]; ok {
				row.Values[ColSimilarity] = Value(g.MeanSimilarity / MaxSimilarityScore)
			}
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

// Tone grades an evidence card.
type Tone string

const (
	ToneGood Tone = "good"
	ToneWarn Tone = "warn"
	ToneBad  Tone = "bad"
)

// EvidenceCard is one headline statistic of the convergence view.
type EvidenceCard struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Detail string `json:"detail"`
	Tone   Tone   `json:"tone"`
}

// NotAvailable is the card value of a test the service did not run.
const NotAvailable = "N/A"

// EvidenceCards summarises the convergence tests.  Tests missing from the
// payload show NotAvailable.
func EvidenceCards(tests *client.ConvergenceTests) []EvidenceCard {
	if tests == nil {
		tests = &client.ConvergenceTests{}
	}
	cards := make([]EvidenceCard, 0, 4)

	tt := EvidenceCard{Label: "T-Test p-value", Value: NotAvailable, Tone: ToneBad}
	if t := tests.TTest; t != nil {
		tt.Value = FormatExp(t.PValue, 2)
		tt.Detail = "Not significant"
		if t.Significant {
			tt.Detail = "Significant"
			tt.Tone = ToneGood
		}
	}
	cards = append(cards, tt)

	cd := EvidenceCard{Label: "Cohen's d", Value: NotAvailable, Tone: ToneWarn}
	if d := tests.CohensD; d != nil {
		cd.Value = strconv.FormatFloat(d.D, 'f', 3, 64)
		cd.Detail = d.Interpretation
		if math.Abs(d.D) >= 0.5 {
			cd.Tone = ToneGood
		}
	}
	cards = append(cards, cd)

	rs := EvidenceCard{Label: "Regression Slope", Value: NotAvailable, Tone: ToneBad}
	if r := tests.LinearRegression; r != nil {
		rs.Value = FormatSigned(r.Slope, 4)
		rs.Detail = "R² = " + strconv.FormatFloat(r.RSquared, 'f', -1, 64)
		if r.Slope > 0 {
			rs.Tone = ToneGood
		}
	}
	cards = append(cards, rs)

	an := EvidenceCard{Label: "ANOVA F-stat", Value: NotAvailable, Tone: ToneBad}
	if a := tests.ANOVA; a != nil {
		an.Value = strconv.FormatFloat(a.FStatistic, 'f', 2, 64)
		an.Detail = "Not significant"
		if a.Significant {
			an.Detail = "p = " + FormatExp(a.PValue, 2)
			an.Tone = ToneGood
		}
	}
	cards = append(cards, an)

	return cards
}

// FormatExp formats v in exponent notation without exponent zero padding,
// e.g. 1.23e-5.
func FormatExp(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'e', decimals, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}

// FormatSigned formats v with an explicit + for positive values.
func FormatSigned(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if v > 0 {
		return "+" + s
	}
	return s
}

// FeatureLabel returns the display label of a convergence feature.
func FeatureLabel(name string) string {
	if l, ok := convergenceLabels[name]; ok {
		return l
	}
	return name
}

var convergenceLabels = map[string]string{
	"avg_brightness":          "Brightness",
	"face_count":              "Face Count",
	"largest_face_area_ratio": "Face Size",
	"smile_score":             "Smile",
	"mouth_open_score":        "Mouth Open",
	"brow_raise_score":        "Brow Raise",
	"body_coverage":           "Body Coverage",
	"text_box_count":          "Text Boxes",
	"text_area_ratio":         "Text Area",
	"avg_saturation":          "Saturation",
}
