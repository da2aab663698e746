package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thumblens/thumblens/pkg/client"
)

func compareFixture() *client.CompareStats {
	return &client.CompareStats{
		Feature: "color.avg_brightness",
		Groups: map[string]client.GroupSummary{
			"2020":    {Count: 40, Mean: 0.42, Median: 0.4, Std: 0.1, Min: 0.1, Max: 0.9},
			"mrbeast": {Count: 30, Mean: 0.55, Median: 0.56, Std: 0.08, Min: 0.2, Max: 0.95},
		},
	}
}

func distFixture(feature string, bins ...client.HistogramBin) *client.Distribution {
	return &client.Distribution{Feature: feature, Histogram: bins}
}

func TestMergeCompare_PartialDistributionFailure(t *testing.T) {
	dists := map[string]*client.Distribution{
		"mrbeast": distFixture("color.avg_brightness",
			client.HistogramBin{BinStart: 0, BinEnd: 0.5, Count: 10},
			client.HistogramBin{BinStart: 0.5, BinEnd: 1, Count: 20}),
		// "2020" failed and is missing.
	}
	m := MergeCompare(testOrder(), compareFixture(), dists, []string{"mrbeast", "2020"}, 1e-4)

	require.Len(t, m.Summary.Rows, 2)
	assert.Equal(t, []string{"mrbeast", "2020"}, m.Summary.Categories())
	mb, _ := m.Summary.Row("mrbeast")
	assert.Equal(t, "0.55", mb.Get(ColMean).String(2))

	assert.Equal(t, []string{"mrbeast"}, m.HistogramCategories)
	assert.Equal(t, []string{"2020"}, m.MissingHistograms)
	require.Len(t, m.Histogram, 2)
	for _, row := range m.Histogram {
		_, has := row.Counts["2020"]
		assert.False(t, has, "2020 must not be zero-filled")
	}
	assert.Equal(t, 10, m.Histogram[0].Counts["mrbeast"])
}

func TestMergeCompare_AlignsAcrossCategories(t *testing.T) {
	dists := map[string]*client.Distribution{
		"mrbeast": distFixture("f", client.HistogramBin{BinStart: 0, Count: 1}, client.HistogramBin{BinStart: 1, Count: 2}),
		"2020":    distFixture("f", client.HistogramBin{BinStart: 0.5, Count: 3}, client.HistogramBin{BinStart: 1.00001, Count: 4}),
	}
	m := MergeCompare(testOrder(), compareFixture(), dists, nil, 1e-4)

	require.Len(t, m.Histogram, 3)
	assert.Equal(t, []string{"mrbeast", "2020"}, m.HistogramCategories)
	assert.Empty(t, m.MissingHistograms)
	assert.Equal(t, map[string]int{"mrbeast": 2, "2020": 4}, m.Histogram[2].Counts)
	assert.Equal(t, "1.000", m.Histogram[2].Label)
}

func TestMergeCompare_RequestedRestrictsSummary(t *testing.T) {
	m := MergeCompare(testOrder(), compareFixture(), nil, []string{"2020"}, 1e-4)
	assert.Equal(t, []string{"2020"}, m.Summary.Categories())
	assert.Equal(t, []string{"2020"}, m.MissingHistograms)
	assert.Nil(t, m.Histogram)
}

func TestMergeCompare_NilCompare(t *testing.T) {
	m := MergeCompare(testOrder(), nil, map[string]*client.Distribution{"2020": distFixture("f")}, nil, 1e-4)
	assert.Empty(t, m.Summary.Rows)
	assert.Equal(t, "f", m.Feature)
	assert.Equal(t, []string{"2020"}, m.HistogramCategories)
}
