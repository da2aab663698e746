package view

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/thumblens/thumblens/internal/normalize"
	"github.com/thumblens/thumblens/pkg/client"
)

// ConvergenceModel is the read model of the convergence evidence view.
type ConvergenceModel struct {
	Evidence     []normalize.EvidenceCard `json:"evidence"`
	YearCI       []normalize.CIRow        `json:"year_ci"`
	FeatureGap   normalize.Matrix         `json:"feature_gap"`
	FeatureRatio normalize.Matrix         `json:"feature_ratio"`
	Weighted     normalize.Matrix         `json:"weighted"`
	Labels       map[string]string        `json:"labels"`
	Baseline     float64                  `json:"baseline"`
}

// ConvergenceView gathers the statistical tests and per-feature gaps that
// show whether years move toward the reference group.
type ConvergenceView struct {
	*Controller[PanelFilter, ConvergenceModel]
	deps *Deps
}

// NewConvergenceView builds the convergence view.
func NewConvergenceView(d *Deps) *ConvergenceView {
	v := &ConvergenceView{deps: d}
	v.Controller = NewController("convergence", v.fetch, d.options()...)
	return v
}

func (v *ConvergenceView) fetch(ctx context.Context, f PanelFilter) (ConvergenceModel, error) {
	stats := v.deps.Client.Stats()
	var (
		tests    *client.ConvergenceTests
		sim      *client.Similarity
		weighted *client.WeightedLikeness
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tests, err = stats.ConvergenceTests(gctx, f.PanelOnly)
		return err
	})
	g.Go(func() (err error) {
		sim, err = stats.Similarity(gctx, f.PanelOnly)
		return err
	})
	g.Go(func() (err error) {
		weighted, err = stats.WeightedLikeness(gctx, f.PanelOnly)
		return err
	})
	if err := g.Wait(); err != nil {
		return ConvergenceModel{}, err
	}

	order := v.deps.Order()
	labels := make(map[string]string, len(sim.FeatureNames))
	for _, name := range sim.FeatureNames {
		labels[name] = normalize.FeatureLabel(name)
	}
	return ConvergenceModel{
		Evidence:     normalize.EvidenceCards(tests),
		YearCI:       normalize.ConvergenceCIRows(order, tests),
		FeatureGap:   normalize.FeatureGapRows(order, sim),
		FeatureRatio: normalize.FeatureRatioRows(order, sim),
		Weighted:     normalize.WeightedComparisonRows(order, weighted, sim),
		Labels:       labels,
		Baseline:     v.deps.Config().Reference.BaselineScore,
	}, nil
}
