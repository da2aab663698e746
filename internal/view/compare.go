package view

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/thumblens/thumblens/internal/infrastructure/monitoring/logging"
	"github.com/thumblens/thumblens/internal/normalize"
	"github.com/thumblens/thumblens/pkg/client"
	"github.com/thumblens/thumblens/pkg/errors"
)

// CompareFilter selects the feature and categories of the compare view.
// Empty Groups means every configured category.
type CompareFilter struct {
	Feature string   `json:"feature"`
	Groups  []string `json:"groups,omitempty"`
	Bins    int      `json:"bins"`
}

// CompareView compares one feature's distribution across categories.  The
// compare payload is required; each category's histogram is fetched
// separately and a failed one is reported in MissingHistograms.
type CompareView struct {
	*Controller[CompareFilter, normalize.CompareModel]
	deps *Deps
}

// NewCompareView builds the compare view.
func NewCompareView(d *Deps) *CompareView {
	v := &CompareView{deps: d}
	v.Controller = NewController("compare", v.fetch, d.options()...)
	return v
}

// DefaultFilter is the configured initial filter.
func (v *CompareView) DefaultFilter() CompareFilter {
	return CompareFilter{Feature: v.deps.Config().Views.DefaultFeature, Bins: v.deps.Config().Views.DefaultBins}
}

func (v *CompareView) fetch(ctx context.Context, f CompareFilter) (normalize.CompareModel, error) {
	if f.Feature == "" {
		return normalize.CompareModel{}, errors.InvalidParam("feature is required")
	}
	if f.Bins < client.MinBins || f.Bins > client.MaxBins {
		return normalize.CompareModel{}, errors.InvalidParam("bins must be between 5 and 100")
	}
	groups := f.Groups
	if len(groups) == 0 {
		groups = v.deps.Order().Declared()
	}
	groups = v.deps.Order().Sort(groups)

	stats := v.deps.Client.Stats()
	sem := semaphore.NewWeighted(int64(max(v.deps.Config().Views.FetchConcurrency, 1)))
	g, gctx := errgroup.WithContext(ctx)

	var compare *client.CompareStats
	g.Go(func() error {
		res, err := stats.Compare(gctx, f.Feature)
		if err != nil {
			return err
		}
		compare = res
		return nil
	})

	var mu sync.Mutex
	dists := make(map[string]*client.Distribution, len(groups))
	for _, grp := range groups {
		grp := grp
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)
			d, err := stats.Distribution(gctx, f.Feature, grp, f.Bins)
			if err != nil {
				if gctx.Err() == nil {
					v.logger.Warn("distribution unavailable",
						logging.String("category", grp), logging.String("feature", f.Feature), logging.Err(err))
				}
				return nil
			}
			mu.Lock()
			dists[grp] = d
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return normalize.CompareModel{}, err
	}

	model := normalize.MergeCompare(v.deps.Order(), compare, dists, groups, v.deps.Config().Transform.BinTolerance)
	if n := len(model.MissingHistograms); n > 0 {
		v.metrics.PartialFailures(v.name, n)
	}
	return model, nil
}
