package normalize

import (
	"sort"
	"strconv"

	"github.com/thumblens/thumblens/internal/domain/category"
	"github.com/thumblens/thumblens/internal/numeric"
	"github.com/thumblens/thumblens/pkg/client"
)

// Trend is one channel's trajectory relative to the reference group.
type Trend struct {
	Channel        string                 `json:"channel"`
	Slope          float64                `json:"slope"`
	StartYear      string                 `json:"start_year"`
	EndYear        string                 `json:"end_year"`
	StartScore     float64                `json:"start_score"`
	EndScore       float64                `json:"end_score"`
	NumYears       int                    `json:"num_years"`
	Classification numeric.Classification `json:"classification"`
	// Fitted is set when the payload had no trend for the channel and the
	// slope was fitted from its year series.
	Fitted bool `json:"fitted,omitempty"`
}

// EvolutionYears returns every year any channel has data for, ascending.
func EvolutionYears(src *client.ChannelEvolution) []string {
	if src == nil {
		return nil
	}
	set := map[string]bool{}
	for _, ch := range src.Channels {
		for y := range ch.Years {
			set[y] = true
		}
	}
	years := make([]string, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// Channels returns every channel name, lexically.
func Channels(src *client.ChannelEvolution) []string {
	if src == nil {
		return nil
	}
	names := make([]string, 0, len(src.Channels))
	for name := range src.Channels {
		names = append(names, name)
	}
	return category.Lexical(names)
}

// EvolutionSeries builds the wide line-chart rows: one row per year, one
// column per selected channel (lexical), absent where the channel has no
// data that year.  Unknown channels in selected are dropped.
func EvolutionSeries(src *client.ChannelEvolution, selected []string) Matrix {
	m := Matrix{}
	if src == nil {
		return m
	}
	for _, ch := range category.Lexical(dedupe(selected)) {
		if _, ok := src.Channels[ch]; ok {
			m.Columns = append(m.Columns, ch)
		}
	}
	for _, y := range EvolutionYears(src) {
		row := NewCategoryRow(y)
		for _, ch := range m.Columns {
			if p, ok := src.Channels[ch].Years[y]; ok {
				row.Values[ch] = Value(p.MeanScore)
			} else {
				row.Values[ch] = Absent
			}
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

// EvolutionTrends returns one trend per channel, steepest convergence first.
// Payload trends are used as given; a channel without one gets a slope
// fitted over its year series.  Classification uses epsilon.
func EvolutionTrends(src *client.ChannelEvolution, epsilon float64) []Trend {
	if src == nil {
		return nil
	}
	var out []Trend
	seen := map[string]bool{}
	for _, t := range src.Trends {
		if seen[t.Channel] {
			continue
		}
		seen[t.Channel] = true
		out = append(out, Trend{
			Channel:        t.Channel,
			Slope:          t.Slope,
			StartYear:      t.StartYear,
			EndYear:        t.EndYear,
			StartScore:     t.StartScore,
			EndScore:       t.EndScore,
			NumYears:       t.NumYears,
			Classification: numeric.ClassifySlope(t.Slope, epsilon),
		})
	}

	for _, name := range Channels(src) {
		if seen[name] {
			continue
		}
		if t, ok := fitTrend(name, src.Channels[name], epsilon); ok {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Slope > out[j].Slope })
	return out
}

func fitTrend(name string, series client.ChannelSeries, epsilon float64) (Trend, bool) {
	years := make([]string, 0, len(series.Years))
	for y := range series.Years {
		years = append(years, y)
	}
	if len(years) == 0 {
		return Trend{}, false
	}
	sort.Strings(years)

	xs := make([]float64, 0, len(years))
	ys := make([]float64, 0, len(years))
	for _, y := range years {
		yr, err := strconv.Atoi(y)
		if err != nil {
			continue
		}
		xs = append(xs, float64(yr))
		ys = append(ys, series.Years[y].MeanScore)
	}
	slope := numeric.FitSlope(xs, ys)
	first, last := years[0], years[len(years)-1]
	return Trend{
		Channel:        name,
		Slope:          slope,
		StartYear:      first,
		EndYear:        last,
		StartScore:     series.Years[first].MeanScore,
		EndScore:       series.Years[last].MeanScore,
		NumYears:       len(years),
		Classification: numeric.ClassifySlope(slope, epsilon),
		Fitted:         true,
	}, true
}

// AutoSelect picks the top most converging and bottom most diverging
// channels of slope-sorted trends, without duplicates, in trend order.
func AutoSelect(trends []Trend, top, bottom int) []string {
	var out []string
	seen := map[string]bool{}
	add := func(t Trend) {
		if !seen[t.Channel] {
			seen[t.Channel] = true
			out = append(out, t.Channel)
		}
	}
	for i := 0; i < top && i < len(trends); i++ {
		add(trends[i])
	}
	start := len(trends) - bottom
	if start < 0 {
		start = 0
	}
	for i := start; i < len(trends); i++ {
		add(trends[i])
	}
	return out
}

// HeatCell is one (channel, year) cell of the heatmap.
type HeatCell struct {
	Year  string      `json:"year"`
	Score Cell        `json:"score"`
	Color numeric.RGB `json:"color"`
}

// HeatRow is one channel of the heatmap.
type HeatRow struct {
	Channel string     `json:"channel"`
	Cells   []HeatCell `json:"cells"`
}

// Heatmap is the channel by year score grid.
type Heatmap struct {
	Years    []string  `json:"years"`
	MaxScore float64   `json:"max_score"`
	Rows     []HeatRow `json:"rows"`
}

// EvolutionHeatmap lays channels out in trend order against every year.
// Present cells are coloured with HeatColor over [0, maxScore]; absent cells
// keep the zero colour and render as Placeholder.
func EvolutionHeatmap(src *client.ChannelEvolution, trends []Trend, maxScore float64, low, high numeric.RGB) Heatmap {
	h := Heatmap{Years: EvolutionYears(src), MaxScore: maxScore}
	if src == nil {
		return h
	}
	for _, t := range trends {
		series, ok := src.Channels[t.Channel]
		if !ok {
			continue
		}
		row := HeatRow{Channel: t.Channel, Cells: make([]HeatCell, len(h.Years))}
		for i, y := range h.Years {
			row.Cells[i].Year = y
			if p, ok := series.Years[y]; ok {
				row.Cells[i].Score = Value(p.MeanScore)
				row.Cells[i].Color = numeric.HeatColor(p.MeanScore, maxScore, low, high)
			}
		}
		h.Rows = append(h.Rows, row)
	}
	return h
}

// EvolutionOverview is the headline block of the evolution view.
type EvolutionOverview struct {
	TotalChannels int     `json:"total_channels"`
	Converging    int     `json:"converging"`
	Diverging     int     `json:"diverging"`
	Flat          int     `json:"flat"`
	ConvergingPct float64 `json:"converging_pct"`
	DivergingPct  float64 `json:"diverging_pct"`
	AvgSlope      float64 `json:"avg_slope"`
	AvgTitleSlope float64 `json:"avg_title_slope"`
}

// EvolutionSummary counts trends per classification.  Counts come from the
// trends so they agree with the configured epsilon.
func EvolutionSummary(src *client.ChannelEvolution, trends []Trend) EvolutionOverview {
	o := EvolutionOverview{TotalChannels: len(trends)}
	if src != nil {
		if src.TotalChannels > o.TotalChannels {
			o.TotalChannels = src.TotalChannels
		}
		o.AvgTitleSlope = src.Summary.AvgTitleSlope
	}
	slopes := make([]float64, len(trends))
	for i, t := range trends {
		slopes[i] = t.Slope
		switch t.Classification {
		case numeric.Converging:
			o.Converging++
		case numeric.Diverging:
			o.Diverging++
		default:
			o.Flat++
		}
	}
	o.AvgSlope = numeric.Round(numeric.Mean(slopes), 4)
	o.ConvergingPct = numeric.Round(numeric.Percent(float64(o.Converging), float64(o.TotalChannels)), 0)
	o.DivergingPct = numeric.Round(numeric.Percent(float64(o.Diverging), float64(o.TotalChannels)), 0)
	return o
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
