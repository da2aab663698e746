package client

import (
	"context"
	"net/url"
	"strconv"
)

// Cluster count limits accepted by /clustering/run.
const (
	MinClusters = 2
	MaxClusters = 10
)

// ClusterPoint is one thumbnail projected to two dimensions.  ClusterID is
// nil for points the run did not assign.
type ClusterPoint struct {
	ID        int64   `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ClusterID *int    `json:"cluster_id"`
	Group     string  `json:"group"`
	FilePath  string  `json:"file_path"`
	Title     *string `json:"title"`
}

// ClusterStat is one cluster's size and group composition.
type ClusterStat struct {
	Count  int            `json:"count"`
	Groups map[string]int `json:"groups"`
}

// ClusteringResult describes a clustering run.  ClusterStats is keyed by the
// decimal cluster id.
type ClusteringResult struct {
	Method            string                 `json:"method"`
	K                 int                    `json:"k"`
	SampleCount       int                    `json:"sample_count"`
	ClusterStats      map[string]ClusterStat `json:"cluster_stats"`
	ExplainedVariance []float64              `json:"explained_variance"`
	FeatureNames      []string               `json:"feature_names"`
}

// ClusteringSummary reports the state of the last run.
type ClusteringSummary struct {
	TotalProcessed int   `json:"total_processed"`
	Clustered      int   `json:"clustered"`
	NumClusters    int   `json:"num_clusters"`
	ClusterIDs     []int `json:"cluster_ids"`
}

// ClusteringClient wraps the /clustering endpoints.
type ClusteringClient struct {
	client *Client
}

// Run clusters the thumbnails of group (all when empty) into k clusters
// using method (the service default when empty).
// GET /clustering/run?k={k}&group={group}&method={method}
func (cc *ClusteringClient) Run(ctx context.Context, k int, group, method string) (*ClusteringResult, error) {
	if k < MinClusters || k > MaxClusters {
		return nil, invalidArg("k must be between 2 and 10")
	}
	q := url.Values{}
	q.Set("k", strconv.Itoa(k))
	if group != "" {
		q.Set("group", group)
	}
	if method != "" {
		q.Set("method", method)
	}
	var resp ClusteringResult
	if err := cc.client.get(ctx, "/clustering/run", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Points returns the projected points of the last run.
// GET /clustering/points?group={group}
func (cc *ClusteringClient) Points(ctx context.Context, group string) ([]ClusterPoint, error) {
	q := url.Values{}
	if group != "" {
		q.Set("group", group)
	}
	var resp []ClusterPoint
	if err := cc.client.get(ctx, "/clustering/points", q, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Summary returns the clustering summary.
// GET /clustering/summary
func (cc *ClusteringClient) Summary(ctx context.Context) (*ClusteringSummary, error) {
	var resp ClusteringSummary
	if err := cc.client.get(ctx, "/clustering/summary", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
