package view

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thumblens/thumblens/pkg/client"
)

func serveClustering(f *fakeService, n, k int) {
	groups := []string{"mrbeast", "2019", "2020"}
	points := make([]client.ClusterPoint, n)
	stats := map[string]client.ClusterStat{}
	for i := range points {
		cid := i % k
		points[i] = client.ClusterPoint{
			ID:        int64(i + 1),
			X:         float64(i%13) - 6,
			Y:         float64(i%7) - 3,
			ClusterID: intp(cid),
			Group:     groups[i%len(groups)],
			FilePath:  fmt.Sprintf("data/thumbnails/%s/%d.jpg", groups[i%len(groups)], i+1),
		}
		key := fmt.Sprint(cid)
		st := stats[key]
		if st.Groups == nil {
			st.Groups = map[string]int{}
		}
		st.Count++
		st.Groups[points[i].Group]++
		stats[key] = st
	}
	f.reply("/clustering/run", client.ClusteringResult{Method: "kmeans", K: k, SampleCount: n, ClusterStats: stats})
	f.reply("/clustering/points", points)
}

func TestProjectionView_Partitions(t *testing.T) {
	f := newFakeService(t)
	serveClustering(f, 200, 4)
	v := NewProjectionView(f.deps())

	s, err := v.Load(context.Background(), ProjectionFilter{K: 4, Method: "kmeans"})
	require.NoError(t, err)
	assert.Len(t, s.Data.Points, 200)
	assert.Len(t, s.Data.ByCluster, 4)
	assert.Len(t, s.Data.ByCategory, 3)
	assert.Len(t, s.Data.Compositions, 4)
	assert.Equal(t, 4, s.Data.NumClusters)
	assert.Less(t, s.Data.XDomain.Min, s.Data.XDomain.Max)
}

func TestProjectionView_ColorByNeverRefetches(t *testing.T) {
	f := newFakeService(t)
	serveClustering(f, 200, 4)
	v := NewProjectionView(f.deps())
	_, err := v.Load(context.Background(), v.DefaultFilter())
	require.NoError(t, err)
	before := f.total()

	assert.Equal(t, ColorByCategory, v.ColorBy())
	byCategory := v.Partitions()
	assert.Len(t, byCategory, 3)

	v.SetColorBy(ColorByCluster)
	byCluster := v.Partitions()
	assert.Len(t, byCluster, 4)
	assert.Equal(t, "Cluster 0", byCluster[0].Label)

	v.SetColorBy(ParseColorBy("anything"))
	assert.Equal(t, byCategory, v.Partitions())
	assert.Equal(t, before, f.total())
}

func TestProjectionView_SelectedPoint(t *testing.T) {
	f := newFakeService(t)
	serveClustering(f, 10, 2)
	v := NewProjectionView(f.deps())
	_, err := v.Load(context.Background(), ProjectionFilter{K: 2})
	require.NoError(t, err)

	_, ok := v.SelectedPoint()
	assert.False(t, ok)

	require.NoError(t, v.Select(3))
	p, ok := v.SelectedPoint()
	require.True(t, ok)
	assert.Equal(t, int64(3), p.ID)
}

func TestProjectionView_InvalidK(t *testing.T) {
	f := newFakeService(t)
	v := NewProjectionView(f.deps())
	_, err := v.Load(context.Background(), ProjectionFilter{K: 11})
	assert.Error(t, err)
	assert.Zero(t, f.total())
}
