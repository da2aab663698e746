package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClustering_Run(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clustering/run", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "4", q.Get("k"))
		assert.Equal(t, "umap", q.Get("method"))
		assert.Equal(t, "", q.Get("group"))
		_, _ = w.Write([]byte(`{"method":"umap","k":4,"sample_count":200,"cluster_stats":{"0":{"count":50,"groups":{"mrbeast":10}}},"explained_variance":[0.4,0.2],"feature_names":["a"]}`))
	})
	out, err := c.Clustering().Run(context.Background(), 4, "", "umap")
	require.NoError(t, err)
	assert.Equal(t, 200, out.SampleCount)
	assert.Equal(t, 50, out.ClusterStats["0"].Count)
}

func TestClustering_Run_Validation(t *testing.T) {
	c, _ := NewClient("http://localhost:1")
	for _, k := range []int{1, 11} {
		_, err := c.Clustering().Run(context.Background(), k, "", "")
		assert.Error(t, err, "k=%d", k)
	}
}

func TestClustering_Points(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2020", r.URL.Query().Get("group"))
		_, _ = w.Write([]byte(`[{"id":1,"x":0.1,"y":0.2,"cluster_id":3,"group":"2020","file_path":"a.jpg","title":null},
			{"id":2,"x":0.3,"y":0.4,"cluster_id":null,"group":"2020","file_path":"b.jpg","title":"t"}]`))
	})
	pts, err := c.Clustering().Points(context.Background(), "2020")
	require.NoError(t, err)
	require.Len(t, pts, 2)
	require.NotNil(t, pts[0].ClusterID)
	assert.Equal(t, 3, *pts[0].ClusterID)
	assert.Nil(t, pts[1].ClusterID)
	assert.Nil(t, pts[0].Title)
}

func TestClustering_Summary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_processed":10,"clustered":8,"num_clusters":2,"cluster_ids":[0,1]}`))
	})
	out, err := c.Clustering().Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, out.ClusterIDs)
}
