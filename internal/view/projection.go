package view

import (
	"context"
	"sync"

	"github.com/thumblens/thumblens/internal/normalize"
	"github.com/thumblens/thumblens/internal/numeric"
	"github.com/thumblens/thumblens/pkg/client"
	"github.com/thumblens/thumblens/pkg/errors"
)

// ColorBy chooses how projection points are partitioned into series.
type ColorBy string

const (
	ColorByCategory ColorBy = "category"
	ColorByCluster  ColorBy = "cluster"
)

// ParseColorBy accepts "category" or "cluster"; anything else is category.
func ParseColorBy(s string) ColorBy {
	if ColorBy(s) == ColorByCluster {
		return ColorByCluster
	}
	return ColorByCategory
}

// ProjectionFilter parameterises a clustering run.  An empty Group runs
// over every category.
type ProjectionFilter struct {
	K      int    `json:"k"`
	Method string `json:"method"`
	Group  string `json:"group,omitempty"`
}

// ProjectionModel is the read model of the clustering view.  Both
// partitions reference the same points.
type ProjectionModel struct {
	Points       []*normalize.ProjectionPoint   `json:"points"`
	ByCategory   []normalize.Partition          `json:"by_category"`
	ByCluster    []normalize.Partition          `json:"by_cluster"`
	XDomain      numeric.Domain                 `json:"x_domain"`
	YDomain      numeric.Domain                 `json:"y_domain"`
	Compositions []normalize.ClusterComposition `json:"compositions"`
	NumClusters  int                            `json:"num_clusters"`
	Method       string                         `json:"method"`
	Variance     []float64                      `json:"explained_variance,omitempty"`
}

// ProjectionView runs a clustering and shows the projected points.  The
// colour-by mode is derived state and switching it never refetches.
type ProjectionView struct {
	*Controller[ProjectionFilter, ProjectionModel]
	deps *Deps

	colorMu sync.Mutex
	colorBy ColorBy
}

// NewProjectionView builds the clustering view.
func NewProjectionView(d *Deps) *ProjectionView {
	v := &ProjectionView{deps: d, colorBy: ColorByCategory}
	v.Controller = NewController("clustering", v.fetch, d.options()...)
	return v
}

// DefaultFilter is the configured initial filter.
func (v *ProjectionView) DefaultFilter() ProjectionFilter {
	return ProjectionFilter{K: v.deps.Config().Views.DefaultK, Method: v.deps.Config().Views.DefaultMethod}
}

func (v *ProjectionView) fetch(ctx context.Context, f ProjectionFilter) (ProjectionModel, error) {
	if f.K < client.MinClusters || f.K > client.MaxClusters {
		return ProjectionModel{}, errors.InvalidParam("k must be between 2 and 10")
	}
	cc := v.deps.Client.Clustering()

	// The run assigns cluster ids; points are read after it so they carry
	// the fresh assignment.
	run, err := cc.Run(ctx, f.K, f.Group, f.Method)
	if err != nil {
		return ProjectionModel{}, err
	}
	raw, err := cc.Points(ctx, f.Group)
	if err != nil {
		return ProjectionModel{}, err
	}

	points := normalize.ProjectionPoints(raw)
	t := v.deps.Config().Transform
	x, y := normalize.PointsDomain(points, t.LowPercentile, t.HighPercentile, t.PadFraction)
	return ProjectionModel{
		Points:       points,
		ByCategory:   normalize.PartitionByCategory(points, v.deps.Order()),
		ByCluster:    normalize.PartitionByCluster(points),
		XDomain:      x,
		YDomain:      y,
		Compositions: normalize.ClusterCompositions(v.deps.Order(), run),
		NumClusters:  run.K,
		Method:       run.Method,
		Variance:     run.ExplainedVariance,
	}, nil
}

// SetColorBy switches the partition returned by Partitions.
func (v *ProjectionView) SetColorBy(c ColorBy) {
	v.colorMu.Lock()
	v.colorBy = c
	v.colorMu.Unlock()
}

// ColorBy returns the current colour-by mode.
func (v *ProjectionView) ColorBy() ColorBy {
	v.colorMu.Lock()
	defer v.colorMu.Unlock()
	return v.colorBy
}

// Partitions returns the current snapshot's points partitioned by the
// colour-by mode.
func (v *ProjectionView) Partitions() []normalize.Partition {
	data := v.Snapshot().Data
	if v.ColorBy() == ColorByCluster {
		return data.ByCluster
	}
	return data.ByCategory
}

// SelectedPoint returns the selected point of the current snapshot.
func (v *ProjectionView) SelectedPoint() (*normalize.ProjectionPoint, bool) {
	s := v.Snapshot()
	if s.Selection == nil {
		return nil, false
	}
	return normalize.FindPoint(s.Data.Points, *s.Selection)
}
