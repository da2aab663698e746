package binding

import (
	"strconv"

	"github.com/thumblens/thumblens/internal/normalize"
	"github.com/thumblens/thumblens/internal/numeric"
)

// ChartKind is the widget a ChartSpec is drawn with.
type ChartKind string

const (
	ChartBar     ChartKind = "bar"
	ChartLine    ChartKind = "line"
	ChartScatter ChartKind = "scatter"
)

// Trend colours.
const (
	ConvergingColor = "#16a34a"
	DivergingColor  = "#dc2626"
	BaselineColor   = "#e6194b"
)

// Point is one scatter point.
type Point struct {
	ID    int64   `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// Series is one named data series.  Values are aligned with the chart's
// Categories; a nil value is a gap.  ItemColors, when set, colours each
// value individually.  Scatter series carry Points instead.
type Series struct {
	Name       string     `json:"name"`
	Color      string     `json:"color"`
	Values     []*float64 `json:"values,omitempty"`
	ItemColors []string   `json:"item_colors,omitempty"`
	Points     []Point    `json:"points,omitempty"`
}

// ReferenceLine is a horizontal marker at Value.
type ReferenceLine struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// ChartSpec is a chart with every visual decision made.
type ChartSpec struct {
	Kind           ChartKind       `json:"kind"`
	Title          string          `json:"title"`
	XAxis          Axis            `json:"x_axis"`
	YAxis          Axis            `json:"y_axis"`
	Categories     []string        `json:"categories,omitempty"`
	Series         []Series        `json:"series"`
	ReferenceLines []ReferenceLine `json:"reference_lines,omitempty"`
	Tooltip        MetricKind      `json:"tooltip"`
}

// Empty reports whether the chart has nothing to draw.
func (s ChartSpec) Empty() bool {
	for _, sr := range s.Series {
		if len(sr.Points) > 0 {
			return false
		}
		for _, v := range sr.Values {
			if v != nil {
				return false
			}
		}
	}
	return true
}

func ptr(v float64) *float64 { return &v }

// columnBars draws one matrix column as bars, one per row category, each in
// its category colour.
func columnBars(p *Palette, m normalize.Matrix, column, name string) Series {
	s := Series{Name: name, Color: p.Fallback()}
	for _, r := range m.Rows {
		s.Values = append(s.Values, r.Get(column).Ptr())
		s.ItemColors = append(s.ItemColors, p.Color(r.Category))
	}
	return s
}

// columnLines draws every matrix column as a line over the row categories.
// colors maps a column to its series colour.
func columnLines(m normalize.Matrix, colors map[string]string, label func(string) string) []Series {
	out := make([]Series, 0, len(m.Columns))
	for _, col := range m.Columns {
		s := Series{Name: label(col), Color: colors[col]}
		for _, r := range m.Rows {
			s.Values = append(s.Values, r.Get(col).Ptr())
		}
		out = append(out, s)
	}
	return out
}

func identity(s string) string { return s }

// CompareBars draws the mean of the feature per category.
func CompareBars(p *Palette, m normalize.CompareModel) ChartSpec {
	label := normalize.CompareFeatureLabel(m.Feature)
	return ChartSpec{
		Kind:       ChartBar,
		Title:      "Mean " + label,
		XAxis:      AutoAxis("Category"),
		YAxis:      AutoAxis(label),
		Categories: m.Summary.Categories(),
		Series:     []Series{columnBars(p, m.Summary, normalize.ColMean, "Mean")},
		Tooltip:    KindRatio,
	}
}

// HistogramBars overlays the aligned per-category histograms.  Categories
// whose distribution is missing have no series.
func HistogramBars(p *Palette, m normalize.CompareModel) ChartSpec {
	spec := ChartSpec{
		Kind:    ChartBar,
		Title:   normalize.CompareFeatureLabel(m.Feature) + " Distribution",
		XAxis:   AutoAxis("Bin"),
		YAxis:   AutoAxis("Count"),
		Tooltip: KindCount,
	}
	for _, row := range m.Histogram {
		spec.Categories = append(spec.Categories, row.Label)
	}
	for _, cat := range m.HistogramCategories {
		s := Series{Name: cat, Color: p.Color(cat)}
		for _, row := range m.Histogram {
			s.Values = append(s.Values, ptr(float64(row.Counts[cat])))
		}
		spec.Series = append(spec.Series, s)
	}
	return spec
}

// LikenessBars draws one score column of the likeness matrix on its
// declared scale.
func LikenessBars(p *Palette, m normalize.Matrix, column string, kind ScoreKind, title string) ChartSpec {
	return ChartSpec{
		Kind:       ChartBar,
		Title:      title,
		XAxis:      AutoAxis("Category"),
		YAxis:      ScoreAxis(kind, "Score"),
		Categories: m.Categories(),
		Series:     []Series{columnBars(p, m, column, title)},
		Tooltip:    KindScore,
	}
}

// DistributionBars stacks a score distribution matrix: one series per score
// bucket, percentages per year.
func DistributionBars(p *Palette, m normalize.Matrix, title string) ChartSpec {
	spec := ChartSpec{
		Kind:       ChartBar,
		Title:      title,
		XAxis:      AutoAxis("Year"),
		YAxis:      ScoreAxis(ScorePercent, "% of thumbnails"),
		Categories: m.Categories(),
		Tooltip:    KindPercent,
	}
	for i, col := range m.Columns {
		s := Series{Name: "Score " + col, Color: p.IndexColor(i)}
		for _, r := range m.Rows {
			s.Values = append(s.Values, r.Get(col).Ptr())
		}
		spec.Series = append(spec.Series, s)
	}
	return spec
}

// EvolutionLines draws the selected channels' yearly scores with the
// reference group's baseline as a reference line.  Colours are ranked among
// all channels, so toggling one never recolours another.
func EvolutionLines(p *Palette, series normalize.Matrix, channels []string, baseline float64, reference string) ChartSpec {
	return ChartSpec{
		Kind:       ChartLine,
		Title:      "Channel Likeness Over Time",
		XAxis:      AutoAxis("Year"),
		YAxis:      ScoreAxis(ScoreEvolution, "Likeness score"),
		Categories: series.Categories(),
		Series:     columnLines(series, p.SeriesColors(channels), identity),
		ReferenceLines: []ReferenceLine{{
			Label: reference + " baseline",
			Value: baseline,
			Color: BaselineColor,
		}},
		Tooltip: KindScore,
	}
}

// TrendColor colours a trend by its classification.
func TrendColor(p *Palette, c numeric.Classification) string {
	switch c {
	case numeric.Converging:
		return ConvergingColor
	case numeric.Diverging:
		return DivergingColor
	default:
		return p.Fallback()
	}
}

// SlopeBars draws each channel's slope, coloured by classification, in the
// order of trends.
func SlopeBars(p *Palette, trends []normalize.Trend) ChartSpec {
	s := Series{Name: "Slope", Color: p.Fallback()}
	spec := ChartSpec{
		Kind:    ChartBar,
		Title:   "Likeness Trend per Channel",
		XAxis:   AutoAxis("Channel"),
		YAxis:   AutoAxis("pts/year"),
		Tooltip: KindSlope,
	}
	for _, t := range trends {
		spec.Categories = append(spec.Categories, t.Channel)
		s.Values = append(s.Values, ptr(t.Slope))
		s.ItemColors = append(s.ItemColors, TrendColor(p, t.Classification))
	}
	spec.Series = []Series{s}
	return spec
}

// ProjectionScatter draws the partitions as scatter series on the clipped
// domains.  byCluster selects cluster colouring; otherwise partitions are
// categories.
func ProjectionScatter(p *Palette, parts []normalize.Partition, byCluster bool, x, y numeric.Domain, title string) ChartSpec {
	spec := ChartSpec{
		Kind:    ChartScatter,
		Title:   title,
		XAxis:   ProjectionAxis(x, "Component 1"),
		YAxis:   ProjectionAxis(y, "Component 2"),
		Tooltip: KindRatio,
	}
	for _, part := range parts {
		s := Series{Name: part.Label, Color: partitionColor(p, part, byCluster)}
		for _, pt := range part.Points {
			label := pt.Category
			if pt.Title != nil {
				label = *pt.Title
			}
			s.Points = append(s.Points, Point{ID: pt.ID, X: pt.X, Y: pt.Y, Label: label})
		}
		spec.Series = append(spec.Series, s)
	}
	return spec
}

func partitionColor(p *Palette, part normalize.Partition, byCluster bool) string {
	if !byCluster {
		return p.Color(part.Key)
	}
	id, err := strconv.Atoi(part.Key)
	if err != nil {
		return p.Fallback()
	}
	return p.IndexColor(id)
}

// ConvergenceLines draws the yearly mean score with its confidence band and
// the baseline.
func ConvergenceLines(p *Palette, rows []normalize.CIRow, baseline float64, reference string) ChartSpec {
	mean := Series{Name: "Mean", Color: p.IndexColor(2)}
	low := Series{Name: "95% CI low", Color: p.Fallback()}
	high := Series{Name: "95% CI high", Color: p.Fallback()}
	spec := ChartSpec{
		Kind:    ChartLine,
		Title:   "Yearly Likeness with 95% CI",
		XAxis:   AutoAxis("Year"),
		YAxis:   ScoreAxis(ScoreEvolution, "Likeness score"),
		Tooltip: KindScore,
		ReferenceLines: []ReferenceLine{{
			Label: reference + " baseline",
			Value: baseline,
			Color: BaselineColor,
		}},
	}
	for _, r := range rows {
		spec.Categories = append(spec.Categories, r.Year)
		mean.Values = append(mean.Values, ptr(r.Mean))
		low.Values = append(low.Values, ptr(r.CILow))
		high.Values = append(high.Values, ptr(r.CIHigh))
	}
	spec.Series = []Series{mean, low, high}
	return spec
}

// GapLines draws each feature's distance from the reference centroid.
func GapLines(p *Palette, m normalize.Matrix) ChartSpec {
	return ChartSpec{
		Kind:       ChartLine,
		Title:      "Feature Gap to Reference",
		XAxis:      AutoAxis("Year"),
		YAxis:      AutoAxis("Absolute gap"),
		Categories: m.Categories(),
		Series:     columnLines(m, p.SeriesColors(m.Columns), normalize.FeatureLabel),
		Tooltip:    KindGap,
	}
}

// RatioLines draws each feature as a fraction of the reference centroid,
// with the reference itself at 1.
func RatioLines(p *Palette, m normalize.Matrix, reference string) ChartSpec {
	return ChartSpec{
		Kind:       ChartLine,
		Title:      "Feature Ratio to Reference",
		XAxis:      AutoAxis("Year"),
		YAxis:      AutoAxis("Ratio"),
		Categories: m.Categories(),
		Series:     columnLines(m, p.SeriesColors(m.Columns), normalize.FeatureLabel),
		ReferenceLines: []ReferenceLine{{
			Label: reference,
			Value: 1,
			Color: BaselineColor,
		}},
		Tooltip: KindRatio,
	}
}

// WeightedLines compares the weighted likeness with the scaled similarity
// score on the normalized axis.
func WeightedLines(p *Palette, m normalize.Matrix) ChartSpec {
	return ChartSpec{
		Kind:       ChartLine,
		Title:      "Weighted vs Similarity Likeness",
		XAxis:      AutoAxis("Year"),
		YAxis:      ScoreAxis(ScoreNormalized, "Normalized score"),
		Categories: m.Categories(),
		Series:     columnLines(m, p.SeriesColors(m.Columns), weightedLabel),
		Tooltip:    KindRatio,
	}
}

func weightedLabel(col string) string {
	switch col {
	case normalize.ColWeighted:
		return "Weighted"
	case normalize.ColSimilarity:
		return "Similarity"
	}
	return col
}

// CorrelationBars draws feature correlations; significant ones are
// highlighted.
func CorrelationBars(p *Palette, rows []normalize.CorrelationRow, target string) ChartSpec {
	s := Series{Name: "Correlation", Color: p.Fallback()}
	spec := ChartSpec{
		Kind:    ChartBar,
		Title:   "Feature Correlation with " + target,
		XAxis:   AutoAxis("Feature"),
		YAxis:   ScoreAxis(ScoreCorrelation, "r"),
		Tooltip: KindCorrelation,
	}
	for _, r := range rows {
		spec.Categories = append(spec.Categories, normalize.FeatureLabel(r.Feature))
		s.Values = append(s.Values, ptr(r.Correlation))
		col := p.Fallback()
		if r.Significant {
			col = p.IndexColor(2)
		}
		s.ItemColors = append(s.ItemColors, col)
	}
	spec.Series = []Series{s}
	return spec
}

// OverviewBars draws thumbnail counts per category.
func OverviewBars(p *Palette, rows []normalize.CountRow, title string) ChartSpec {
	s := Series{Name: "Thumbnails", Color: p.Fallback()}
	spec := ChartSpec{
		Kind:    ChartBar,
		Title:   title,
		XAxis:   AutoAxis("Category"),
		YAxis:   AutoAxis("Thumbnails"),
		Tooltip: KindCount,
	}
	for _, r := range rows {
		spec.Categories = append(spec.Categories, r.Category)
		s.Values = append(s.Values, ptr(float64(r.Count)))
		s.ItemColors = append(s.ItemColors, p.Color(r.Category))
	}
	spec.Series = []Series{s}
	return spec
}
