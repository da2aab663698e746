package view

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/thumblens/thumblens/internal/normalize"
	"github.com/thumblens/thumblens/pkg/client"
	"github.com/thumblens/thumblens/pkg/errors"
)

// NoFilter is the filter of views without parameters.
type NoFilter struct{}

// OverviewModel is the landing view's read model.
type OverviewModel struct {
	Overview normalize.Overview `json:"overview"`
	Progress normalize.Progress `json:"progress"`
}

// OverviewView shows dataset counts and extraction progress.
type OverviewView struct {
	*Controller[NoFilter, OverviewModel]
	deps *Deps
}

// NewOverviewView builds the overview.
func NewOverviewView(d *Deps) *OverviewView {
	v := &OverviewView{deps: d}
	v.Controller = NewController("overview", v.fetch, d.options()...)
	return v
}

func (v *OverviewView) fetch(ctx context.Context, _ NoFilter) (OverviewModel, error) {
	var (
		ov *client.OverviewStats
		ps *client.PipelineStatus
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ov, err = v.deps.Client.Stats().Overview(gctx)
		return err
	})
	g.Go(func() (err error) {
		ps, err = v.deps.Client.Thumbnails().PipelineStatus(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return OverviewModel{}, err
	}
	return OverviewModel{
		Overview: normalize.OverviewRows(v.deps.Order(), ov),
		Progress: normalize.PipelineProgress(ps),
	}, nil
}

// CorrelationsFilter picks the performance metric.
type CorrelationsFilter struct {
	Target string `json:"target"`
}

// CorrelationsModel lists feature correlations, strongest first.
type CorrelationsModel struct {
	Target string                     `json:"target"`
	Rows   []normalize.CorrelationRow `json:"rows"`
}

// CorrelationsView correlates features with views or CTR.
type CorrelationsView struct {
	*Controller[CorrelationsFilter, CorrelationsModel]
	deps *Deps
}

// NewCorrelationsView builds the correlations view.
func NewCorrelationsView(d *Deps) *CorrelationsView {
	v := &CorrelationsView{deps: d}
	v.Controller = NewController("correlations", v.fetch, d.options()...)
	return v
}

func (v *CorrelationsView) fetch(ctx context.Context, f CorrelationsFilter) (CorrelationsModel, error) {
	res, err := v.deps.Client.Stats().Correlations(ctx, f.Target)
	if err != nil {
		return CorrelationsModel{}, err
	}
	return CorrelationsModel{Target: res.Target, Rows: normalize.CorrelationRows(res)}, nil
}

// ThumbnailsModel is one gallery page.
type ThumbnailsModel struct {
	Rows     []normalize.ThumbnailRow `json:"rows"`
	Total    int                      `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"page_size"`
	Pages    int                      `json:"pages"`
}

// ThumbnailsView pages through the thumbnail gallery.
type ThumbnailsView struct {
	*Controller[client.ListParams, ThumbnailsModel]
	deps *Deps
}

// NewThumbnailsView builds the gallery.
func NewThumbnailsView(d *Deps) *ThumbnailsView {
	v := &ThumbnailsView{deps: d}
	v.Controller = NewController("thumbnails", v.fetch, d.options()...)
	return v
}

// DefaultFilter is the first page at the configured size.
func (v *ThumbnailsView) DefaultFilter() client.ListParams {
	return client.ListParams{Page: 1, PageSize: v.deps.Config().Views.PageSize}
}

func (v *ThumbnailsView) fetch(ctx context.Context, p client.ListParams) (ThumbnailsModel, error) {
	list, err := v.deps.Client.Thumbnails().List(ctx, p)
	if err != nil {
		return ThumbnailsModel{}, err
	}
	m := ThumbnailsModel{
		Rows:     normalize.ThumbnailRows(list.Items, v.deps.Client.BaseURL(), v.deps.Client.StaticPrefix()),
		Total:    list.Total,
		Page:     list.Page,
		PageSize: list.PageSize,
	}
	if m.PageSize > 0 {
		m.Pages = (m.Total + m.PageSize - 1) / m.PageSize
	}
	return m, nil
}

// Page loads page n with the current filter.
func (v *ThumbnailsView) Page(ctx context.Context, n int) (Snapshot[client.ListParams, ThumbnailsModel], error) {
	if n < 1 {
		return Snapshot[client.ListParams, ThumbnailsModel]{}, errors.InvalidParam("page must be at least 1")
	}
	p := v.Snapshot().Filter
	p.Page = n
	return v.Load(ctx, p)
}
