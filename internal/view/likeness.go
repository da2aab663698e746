package view

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	"github.com/thumblens/thumblens/internal/normalize"
)

// PanelFilter restricts a view to the channel panel.
type PanelFilter struct {
	PanelOnly bool `json:"panel_only"`
}

// LikenessModel is the read model of the likeness view.
type LikenessModel struct {
	// Scores joins the four score kinds per category.  A category missing
	// from one payload has an absent cell in that column.
	Scores    normalize.Matrix      `json:"scores"`
	Reference normalize.CategoryRow `json:"reference"`
	// Years holds the binary score and its threshold shares per year.
	Years              normalize.Matrix `json:"years"`
	BinaryDistribution normalize.Matrix `json:"binary_distribution"`
	TitleDistribution  normalize.Matrix `json:"title_distribution"`
}

// Year columns of the likeness view.
var likenessYearFields = []string{"mean_score", "pct_4plus", "pct_5plus", "pct_6"}

// LikenessView joins the binary, similarity, title and combined likeness
// payloads.  All four are required.
type LikenessView struct {
	*Controller[PanelFilter, LikenessModel]
	deps *Deps
}

// NewLikenessView builds the likeness view.
func NewLikenessView(d *Deps) *LikenessView {
	v := &LikenessView{deps: d}
	v.Controller = NewController("likeness", v.fetch, d.options()...)
	return v
}

func (v *LikenessView) fetch(ctx context.Context, f PanelFilter) (LikenessModel, error) {
	stats := v.deps.Client.Stats()
	var binary, similarity, title, combined json.RawMessage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		binary, err = stats.LikenessRaw(gctx, f.PanelOnly)
		return err
	})
	g.Go(func() (err error) {
		similarity, err = stats.SimilarityRaw(gctx, f.PanelOnly)
		return err
	})
	g.Go(func() (err error) {
		title, err = stats.TitleLikenessRaw(gctx, f.PanelOnly)
		return err
	})
	g.Go(func() (err error) {
		combined, err = stats.CombinedLikenessRaw(gctx, f.PanelOnly)
		return err
	})
	if err := g.Wait(); err != nil {
		return LikenessModel{}, err
	}

	order := v.deps.Order()
	m := LikenessModel{
		Scores: normalize.JoinLikeness(order,
			normalize.BinarySource(binary),
			normalize.SimilaritySource(similarity),
			normalize.TitleSource(title),
			normalize.CombinedSource(combined),
		),
		Years:              normalize.LikenessYearRows(order, binary, likenessYearFields...),
		BinaryDistribution: normalize.ScoreDistributionRows(order, binary, normalize.MaxBinaryScore),
		TitleDistribution:  normalize.ScoreDistributionRows(order, title, normalize.MaxTitleScore),
	}
	if ref, ok := normalize.ReferenceRow(binary, v.deps.Config().Reference.Group, likenessYearFields...); ok {
		m.Reference = ref
	}
	return m, nil
}
