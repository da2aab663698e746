package render

import (
	"bytes"
	"testing"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thumblens/thumblens/internal/binding"
)

func f(v float64) *float64 { return &v }

func barSpec() binding.ChartSpec {
	return binding.ChartSpec{
		Kind:       binding.ChartBar,
		Title:      "Binary Likeness",
		XAxis:      binding.AutoAxis("Category"),
		YAxis:      binding.ScoreAxis(binding.ScoreBinary, "Score"),
		Categories: []string{"mrbeast", "2019", "2020"},
		Series: []binding.Series{{
			Name:       "Binary",
			Color:      "#6b7280",
			Values:     []*float64{f(6.1349), nil, f(3.5)},
			ItemColors: []string{"#e6194b", "#42d4f4", "#f032e6"},
		}},
		Tooltip: binding.KindScore,
	}
}

func TestChart_Kinds(t *testing.T) {
	c, err := Chart(barSpec())
	require.NoError(t, err)
	assert.IsType(t, &charts.Bar{}, c)

	spec := barSpec()
	spec.Kind = binding.ChartLine
	c, err = Chart(spec)
	require.NoError(t, err)
	assert.IsType(t, &charts.Line{}, c)

	spec.Kind = binding.ChartScatter
	c, err = Chart(spec)
	require.NoError(t, err)
	assert.IsType(t, &charts.Scatter{}, c)

	spec.Kind = "pie"
	_, err = Chart(spec)
	assert.Error(t, err)
}

func TestBar_GapsAndItemColours(t *testing.T) {
	bar := Bar(barSpec())
	require.Len(t, bar.MultiSeries, 1)
	data, ok := bar.MultiSeries[0].Data.([]opts.BarData)
	require.True(t, ok)
	require.Len(t, data, 3)
	assert.Equal(t, 6.13, data[0].Value)
	assert.Nil(t, data[1].Value)
	assert.Equal(t, "#f032e6", data[2].ItemStyle.Color)
}

func TestRenderPage(t *testing.T) {
	line := binding.ChartSpec{
		Kind:       binding.ChartLine,
		Title:      "Channel Likeness Over Time",
		YAxis:      binding.ScoreAxis(binding.ScoreBinary, "Likeness score"),
		Categories: []string{"2019", "2020"},
		Series: []binding.Series{
			{Name: "alpha", Color: "#111111", Values: []*float64{f(2), nil}},
			{Name: "beta", Color: "#222222", Values: []*float64{nil, f(3)}},
		},
		ReferenceLines: []binding.ReferenceLine{{Label: "mrbeast baseline", Value: 6.13, Color: "#e6194b"}},
		Tooltip:        binding.KindScore,
	}
	scatter := binding.ChartSpec{
		Kind:  binding.ChartScatter,
		Title: "Clusters",
		XAxis: binding.Axis{Min: -1, Max: 1, Fixed: true},
		YAxis: binding.Axis{Min: -2, Max: 2, Fixed: true},
		Series: []binding.Series{{
			Name:   "Cluster 0",
			Color:  "#333333",
			Points: []binding.Point{{ID: 7, X: 0.5, Y: -0.5, Label: "thumb"}},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, "Evolution", barSpec(), line, scatter))
	html := buf.String()
	assert.Contains(t, html, "<title>Evolution</title>")
	assert.Contains(t, html, "Binary Likeness")
	assert.Contains(t, html, "Channel Likeness Over Time")
	assert.Contains(t, html, "mrbeast baseline")
	assert.Contains(t, html, "Cluster 0")
	assert.Contains(t, html, "#42d4f4")
}

func TestRenderPage_UnsupportedKind(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPage(&buf, "x", binding.ChartSpec{Kind: "radar"})
	assert.Error(t, err)
}
