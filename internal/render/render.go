// Package render draws binding.ChartSpec values with go-echarts.  It is
// widget glue only: colours, bounds and series come from the ChartSpec.
package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/thumblens/thumblens/internal/binding"
	"github.com/thumblens/thumblens/internal/numeric"
)

const (
	ChartWidth           = "1200px"
	ChartHeight          = "520px"
	ChartBackgroundColor = "#ffffff"
	ChartTextColor       = "#374151"
)

// Chart converts spec into the matching go-echarts chart.
func Chart(spec binding.ChartSpec) (components.Charter, error) {
	switch spec.Kind {
	case binding.ChartBar:
		return Bar(spec), nil
	case binding.ChartLine:
		return Line(spec), nil
	case binding.ChartScatter:
		return Scatter(spec), nil
	default:
		return nil, fmt.Errorf("render: unsupported chart kind %q", spec.Kind)
	}
}

// RenderPage writes an HTML page holding one chart per spec.
func RenderPage(w io.Writer, title string, specs ...binding.ChartSpec) error {
	page := components.NewPage()
	page.PageTitle = title
	for _, spec := range specs {
		c, err := Chart(spec)
		if err != nil {
			return err
		}
		page.AddCharts(c)
	}
	return page.Render(w)
}

func globalOpts(spec binding.ChartSpec, trigger string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:           ChartWidth,
			Height:          ChartHeight,
			BackgroundColor: ChartBackgroundColor,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      spec.Title,
			TitleStyle: &opts.TextStyle{Color: ChartTextColor},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: trigger,
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(len(spec.Series) > 1),
			Right:     "10",
			Orient:    "vertical",
			Type:      "scroll",
			TextStyle: &opts.TextStyle{Color: ChartTextColor},
		}),
		charts.WithXAxisOpts(xAxis(spec)),
		charts.WithYAxisOpts(yAxis(spec.YAxis)),
		charts.WithGridOpts(opts.Grid{
			Left:   "80",
			Right:  "220",
			Bottom: "60",
		}),
	}
}

func xAxis(spec binding.ChartSpec) opts.XAxis {
	x := opts.XAxis{
		Name:         spec.XAxis.Name,
		NameLocation: "center",
		NameGap:      30,
		AxisLabel:    &opts.AxisLabel{Color: ChartTextColor},
	}
	if spec.Kind == binding.ChartScatter {
		x.Type = "value"
	}
	if spec.XAxis.Fixed {
		x.Min = spec.XAxis.Min
		x.Max = spec.XAxis.Max
	}
	return x
}

func yAxis(a binding.Axis) opts.YAxis {
	y := opts.YAxis{
		Name:         a.Name,
		NameLocation: "center",
		NameGap:      50,
		AxisLabel:    &opts.AxisLabel{Color: ChartTextColor},
	}
	if a.Fixed {
		y.Min = a.Min
		y.Max = a.Max
	}
	return y
}

// value rounds v to the tooltip precision; nil stays nil so the widget
// draws a gap.
func value(v *float64, kind binding.MetricKind) interface{} {
	if v == nil {
		return nil
	}
	return numeric.Round(*v, binding.Decimals(kind))
}

func seriesOpts(spec binding.ChartSpec, i int, s binding.Series) []charts.SeriesOpts {
	o := []charts.SeriesOpts{charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color})}
	if i != 0 {
		return o
	}
	for _, ref := range spec.ReferenceLines {
		o = append(o, charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
			Name:  ref.Label,
			YAxis: ref.Value,
		}))
	}
	if len(spec.ReferenceLines) > 0 {
		o = append(o, charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			LineStyle: &opts.LineStyle{Color: spec.ReferenceLines[0].Color, Type: "dashed"},
			Label:     &opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"},
		}))
	}
	return o
}

// Bar draws a bar chart.  Per-item colours override the series colour.
func Bar(spec binding.ChartSpec) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(spec, "axis")...)
	bar.SetXAxis(spec.Categories)
	for i, s := range spec.Series {
		data := make([]opts.BarData, len(s.Values))
		for j, v := range s.Values {
			data[j] = opts.BarData{Value: value(v, spec.Tooltip)}
			if j < len(s.ItemColors) && s.ItemColors[j] != "" {
				data[j].ItemStyle = &opts.ItemStyle{Color: s.ItemColors[j]}
			}
		}
		bar.AddSeries(s.Name, data, seriesOpts(spec, i, s)...)
	}
	return bar
}

// Line draws a line chart with gaps at nil values.
func Line(spec binding.ChartSpec) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(spec, "axis")...)
	line.SetXAxis(spec.Categories)
	for i, s := range spec.Series {
		data := make([]opts.LineData, len(s.Values))
		for j, v := range s.Values {
			data[j] = opts.LineData{Value: value(v, spec.Tooltip)}
		}
		line.AddSeries(s.Name, data, seriesOpts(spec, i, s)...)
	}
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}),
	)
	return line
}

// Scatter draws points on value axes.
func Scatter(spec binding.ChartSpec) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(globalOpts(spec, "item")...)
	for i, s := range spec.Series {
		data := make([]opts.ScatterData, len(s.Points))
		for j, p := range s.Points {
			data[j] = opts.ScatterData{
				Name:       p.Label,
				Value:      []float64{p.X, p.Y, float64(p.ID)},
				SymbolSize: 6,
			}
		}
		sc.AddSeries(s.Name, data, seriesOpts(spec, i, s)...)
	}
	return sc
}
