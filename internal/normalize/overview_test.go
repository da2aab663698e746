package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thumblens/thumblens/pkg/client"
)

func TestOverviewRows(t *testing.T) {
	ov := &client.OverviewStats{
		TotalThumbnails: 200,
		ByGroup:         map[string]int{"2020": 50, "mrbeast": 100, "other": 50},
		ByYear:          map[string]int{"2021": 20, "2015": 30},
	}
	out := OverviewRows(testOrder(), ov)
	require.Len(t, out.ByGroup, 3)
	assert.Equal(t, "mrbeast", out.ByGroup[0].Category)
	assert.Equal(t, 50.0, out.ByGroup[0].Percent)
	assert.Equal(t, "other", out.ByGroup[2].Category)
	assert.Equal(t, "2015", out.ByYear[0].Category)
	assert.Equal(t, Overview{}, OverviewRows(testOrder(), nil))
}

func TestPipelineProgress(t *testing.T) {
	p := PipelineProgress(&client.PipelineStatus{TotalThumbnails: 8, Processed: 2, CompletionPercentage: 99})
	assert.Equal(t, 25.0, p.Percent)

	p = PipelineProgress(&client.PipelineStatus{CompletionPercentage: 140})
	assert.Equal(t, 100.0, p.Percent)
	assert.Equal(t, Progress{}, PipelineProgress(nil))
}

func TestCorrelationRows(t *testing.T) {
	rows := CorrelationRows(&client.Correlations{Correlations: []client.Correlation{
		{Feature: "b", Correlation: 0.1},
		{Feature: "a", Correlation: -0.4},
		{Feature: "c", Correlation: 0.4},
	}})
	require.Len(t, rows, 3)
	assert.Equal(t, "a", rows[0].Feature)
	assert.Equal(t, "c", rows[1].Feature)
	assert.Equal(t, "b", rows[2].Feature)
}

func TestThumbnailRows(t *testing.T) {
	title := "Giving away $1"
	year := 2021
	items := []client.Thumbnail{{
		ID:       7,
		Group:    "mrbeast",
		FilePath: "data/thumbnails/mrbeast/7.jpg",
		Title:    &title,
		Year:     &year,
		Features: map[string]map[string]interface{}{"face": {}, "color": {}},
	}}
	rows := ThumbnailRows(items, "http://localhost:8000", "/static/thumbnails/")
	require.Len(t, rows, 1)
	assert.Equal(t, "http://localhost:8000/static/thumbnails/mrbeast/7.jpg", rows[0].ImageURL)
	assert.Equal(t, title, rows[0].Title)
	assert.Equal(t, "2021", rows[0].Year.String(0))
	assert.Equal(t, Placeholder, rows[0].Views.String(0))
	assert.Equal(t, []string{"color", "face"}, rows[0].Families)
}

func TestCompareFeatureLabel(t *testing.T) {
	assert.Equal(t, "Average Brightness", CompareFeatureLabel("color.avg_brightness"))
	assert.Equal(t, "x.y", CompareFeatureLabel("x.y"))
}
