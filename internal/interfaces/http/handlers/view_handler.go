package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/thumblens/thumblens/internal/binding"
	"github.com/thumblens/thumblens/internal/infrastructure/monitoring/logging"
	"github.com/thumblens/thumblens/internal/normalize"
	"github.com/thumblens/thumblens/internal/render"
	"github.com/thumblens/thumblens/internal/view"
	"github.com/thumblens/thumblens/pkg/client"
	"github.com/thumblens/thumblens/pkg/errors"
)

// ViewInfo names a dashboard view.
type ViewInfo struct {
	Name  string
	Title string
}

// Views lists the dashboard views in menu order.
var Views = []ViewInfo{
	{"overview", "Overview"},
	{"compare", "Feature Comparison"},
	{"likeness", "Reference Likeness"},
	{"evolution", "Channel Evolution"},
	{"clustering", "Clustering"},
	{"convergence", "Convergence Evidence"},
	{"correlations", "Performance Correlations"},
	{"thumbnails", "Thumbnails"},
}

func viewTitle(name string) (string, bool) {
	for _, v := range Views {
		if v.Name == name {
			return v.Title, true
		}
	}
	return "", false
}

// ViewResponse is the JSON body of /api/views/{name}.
type ViewResponse struct {
	View     string              `json:"view"`
	Snapshot interface{}         `json:"snapshot"`
	Charts   []binding.ChartSpec `json:"charts"`
	// Extra carries view-specific derived state such as the drawn
	// channels or the selected thumbnail.
	Extra map[string]interface{} `json:"extra,omitempty"`
}

// ViewHandler builds a fresh view per request from the shared deps, so no
// filter or selection leaks between requests.  Only the thumbnail lookup is
// shared, which deduplicates concurrent detail requests.
type ViewHandler struct {
	deps   *view.Deps
	lookup *view.SelectionLookup
	logger logging.Logger
}

// NewViewHandler creates a ViewHandler.
func NewViewHandler(d *view.Deps) *ViewHandler {
	return &ViewHandler{
		deps:   d,
		lookup: view.NewSelectionLookup(d),
		logger: d.Logger.Named("http"),
	}
}

// JSON handles GET /api/views/{name}.
func (h *ViewHandler) JSON(w http.ResponseWriter, r *http.Request) {
	resp, err := h.build(r.Context(), chi.URLParam(r, "name"), r.URL.Query())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Page handles GET /views/{name}: the view's charts as an HTML page.
func (h *ViewHandler) Page(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	resp, err := h.build(r.Context(), name, r.URL.Query())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	title, _ := viewTitle(name)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if name == "thumbnails" {
		err = renderGallery(w, title, resp.Snapshot.(view.Snapshot[client.ListParams, view.ThumbnailsModel]).Data)
	} else {
		err = render.RenderPage(w, title, resp.Charts...)
	}
	if err != nil {
		h.logger.Error("page render failed", logging.String("view", name), logging.Err(err))
	}
}

// Thumbnail handles GET /api/thumbnails/{id}.
func (h *ViewHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeAppError(w, r, errors.InvalidParam("thumbnail id must be an integer"))
		return
	}
	row, err := h.lookup.Lookup(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *ViewHandler) build(ctx context.Context, name string, q url.Values) (ViewResponse, error) {
	var (
		resp ViewResponse
		err  error
	)
	switch name {
	case "overview":
		resp, err = h.overview(ctx)
	case "compare":
		resp, err = h.compare(ctx, q)
	case "likeness":
		resp, err = h.likeness(ctx, q)
	case "evolution":
		resp, err = h.evolution(ctx, q)
	case "clustering":
		resp, err = h.clustering(ctx, q)
	case "convergence":
		resp, err = h.convergence(ctx, q)
	case "correlations":
		resp, err = h.correlations(ctx, q)
	case "thumbnails":
		resp, err = h.thumbnails(ctx, q)
	default:
		return ViewResponse{}, errors.New(errors.CodeUnknownView, "unknown view "+strconv.Quote(name))
	}
	resp.View = name
	return resp, err
}

func (h *ViewHandler) overview(ctx context.Context) (ViewResponse, error) {
	pal := h.deps.Palette()
	s, err := view.NewOverviewView(h.deps).Load(ctx, view.NoFilter{})
	if err != nil {
		return ViewResponse{}, err
	}
	return ViewResponse{
		Snapshot: s,
		Charts: []binding.ChartSpec{
			binding.OverviewBars(pal, s.Data.Overview.ByGroup, "Thumbnails by Group"),
			binding.OverviewBars(pal, s.Data.Overview.ByYear, "Thumbnails by Year"),
		},
	}, nil
}

func (h *ViewHandler) compare(ctx context.Context, q url.Values) (ViewResponse, error) {
	pal := h.deps.Palette()
	v := view.NewCompareView(h.deps)
	f := v.DefaultFilter()
	if feature := q.Get("feature"); feature != "" {
		f.Feature = feature
	}
	if groups := queryList(q, "groups"); len(groups) > 0 {
		f.Groups = groups
	}
	bins, err := queryInt(q, "bins", f.Bins)
	if err != nil {
		return ViewResponse{}, err
	}
	f.Bins = bins

	s, err := v.Load(ctx, f)
	if err != nil {
		return ViewResponse{}, err
	}
	return ViewResponse{
		Snapshot: s,
		Charts: []binding.ChartSpec{
			binding.CompareBars(pal, s.Data),
			binding.HistogramBars(pal, s.Data),
		},
	}, nil
}

func (h *ViewHandler) panelFilter(q url.Values) (view.PanelFilter, error) {
	panel, err := queryBool(q, "panel_only")
	return view.PanelFilter{PanelOnly: panel}, err
}

func (h *ViewHandler) likeness(ctx context.Context, q url.Values) (ViewResponse, error) {
	pal := h.deps.Palette()
	f, err := h.panelFilter(q)
	if err != nil {
		return ViewResponse{}, err
	}
	s, err := view.NewLikenessView(h.deps).Load(ctx, f)
	if err != nil {
		return ViewResponse{}, err
	}
	m := s.Data
	return ViewResponse{
		Snapshot: s,
		Charts: []binding.ChartSpec{
			binding.LikenessBars(pal, m.Scores, normalize.ColBinary, binding.ScoreBinary, "Binary Likeness"),
			binding.LikenessBars(pal, m.Scores, normalize.ColSimilarity, binding.ScoreSimilarity, "Similarity Score"),
			binding.LikenessBars(pal, m.Scores, normalize.ColTitle, binding.ScoreTitle, "Title Likeness"),
			binding.LikenessBars(pal, m.Scores, normalize.ColCombined, binding.ScoreCombined, "Combined Likeness"),
			binding.DistributionBars(pal, m.BinaryDistribution, "Binary Score Distribution"),
			binding.DistributionBars(pal, m.TitleDistribution, "Title Score Distribution"),
		},
	}, nil
}

func (h *ViewHandler) evolution(ctx context.Context, q url.Values) (ViewResponse, error) {
	pal := h.deps.Palette()
	v := view.NewEvolutionView(h.deps)
	f := v.DefaultFilter()
	var err error
	if f.MinYears, err = queryInt(q, "min_years", f.MinYears); err != nil {
		return ViewResponse{}, err
	}
	if f.PanelOnly, err = queryBool(q, "panel_only"); err != nil {
		return ViewResponse{}, err
	}

	s, err := v.Load(ctx, f)
	if err != nil {
		return ViewResponse{}, err
	}
	if channels := queryList(q, "channels"); len(channels) > 0 {
		v.SelectChannels(channels)
	}
	ref := h.deps.Config().Reference.Group
	return ViewResponse{
		Snapshot: s,
		Charts: []binding.ChartSpec{
			binding.EvolutionLines(pal, v.Series(), s.Data.Channels, s.Data.Baseline, ref),
			binding.SlopeBars(pal, s.Data.Trends),
		},
		Extra: map[string]interface{}{"selected_channels": v.SelectedChannels()},
	}, nil
}

func (h *ViewHandler) clustering(ctx context.Context, q url.Values) (ViewResponse, error) {
	pal := h.deps.Palette()
	v := view.NewProjectionView(h.deps)
	f := v.DefaultFilter()
	var err error
	if f.K, err = queryInt(q, "k", f.K); err != nil {
		return ViewResponse{}, err
	}
	if method := q.Get("method"); method != "" {
		f.Method = method
	}
	f.Group = q.Get("group")
	v.SetColorBy(view.ParseColorBy(q.Get("color_by")))

	s, err := v.Load(ctx, f)
	if err != nil {
		return ViewResponse{}, err
	}
	resp := ViewResponse{
		Snapshot: s,
		Charts: []binding.ChartSpec{binding.ProjectionScatter(
			pal, v.Partitions(), v.ColorBy() == view.ColorByCluster,
			s.Data.XDomain, s.Data.YDomain, "Thumbnail Projection ("+s.Data.Method+")",
		)},
	}

	if q.Get("selected") == "" {
		return resp, nil
	}
	id, err := strconv.ParseInt(q.Get("selected"), 10, 64)
	if err != nil {
		return ViewResponse{}, errors.InvalidParam("selected must be a thumbnail id")
	}
	if err := v.Select(id); err != nil {
		return ViewResponse{}, err
	}
	if _, ok := v.SelectedPoint(); !ok {
		return ViewResponse{}, errors.New(errors.CodeSelection, "thumbnail is not in the projection")
	}
	row, _, err := h.lookup.Selected(ctx, v.Snapshot().Selection)
	if err != nil {
		return ViewResponse{}, err
	}
	resp.Snapshot = v.Snapshot()
	resp.Extra = map[string]interface{}{"selected": row}
	return resp, nil
}

func (h *ViewHandler) convergence(ctx context.Context, q url.Values) (ViewResponse, error) {
	pal := h.deps.Palette()
	f, err := h.panelFilter(q)
	if err != nil {
		return ViewResponse{}, err
	}
	s, err := view.NewConvergenceView(h.deps).Load(ctx, f)
	if err != nil {
		return ViewResponse{}, err
	}
	ref := h.deps.Config().Reference.Group
	return ViewResponse{
		Snapshot: s,
		Charts: []binding.ChartSpec{
			binding.ConvergenceLines(pal, s.Data.YearCI, s.Data.Baseline, ref),
			binding.GapLines(pal, s.Data.FeatureGap),
			binding.RatioLines(pal, s.Data.FeatureRatio, ref),
			binding.WeightedLines(pal, s.Data.Weighted),
		},
	}, nil
}

func (h *ViewHandler) correlations(ctx context.Context, q url.Values) (ViewResponse, error) {
	pal := h.deps.Palette()
	target := q.Get("target")
	if target == "" {
		target = "views"
	}
	s, err := view.NewCorrelationsView(h.deps).Load(ctx, view.CorrelationsFilter{Target: target})
	if err != nil {
		return ViewResponse{}, err
	}
	return ViewResponse{
		Snapshot: s,
		Charts:   []binding.ChartSpec{binding.CorrelationBars(pal, s.Data.Rows, s.Data.Target)},
	}, nil
}

func (h *ViewHandler) thumbnails(ctx context.Context, q url.Values) (ViewResponse, error) {
	v := view.NewThumbnailsView(h.deps)
	p := v.DefaultFilter()
	p.Group = q.Get("group")
	p.Sort = q.Get("sort")
	p.Order = q.Get("order")

	var err error
	if p.YearMin, err = queryIntPtr(q, "year_min"); err != nil {
		return ViewResponse{}, err
	}
	if p.YearMax, err = queryIntPtr(q, "year_max"); err != nil {
		return ViewResponse{}, err
	}
	if p.MinFaces, err = queryIntPtr(q, "min_faces"); err != nil {
		return ViewResponse{}, err
	}
	if p.HasText, err = queryBoolPtr(q, "has_text"); err != nil {
		return ViewResponse{}, err
	}
	if p.Page, err = queryInt(q, "page", p.Page); err != nil {
		return ViewResponse{}, err
	}
	if p.PageSize, err = queryInt(q, "page_size", p.PageSize); err != nil {
		return ViewResponse{}, err
	}

	s, err := v.Load(ctx, p)
	if err != nil {
		return ViewResponse{}, err
	}
	return ViewResponse{Snapshot: s, Charts: []binding.ChartSpec{}}, nil
}
