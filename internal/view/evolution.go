package view

import (
	"context"
	"sync"

	"github.com/thumblens/thumblens/internal/domain/category"
	"github.com/thumblens/thumblens/internal/normalize"
	"github.com/thumblens/thumblens/pkg/client"
	"github.com/thumblens/thumblens/pkg/errors"
)

// EvolutionFilter selects the channels of the evolution view.
type EvolutionFilter struct {
	MinYears  int  `json:"min_years"`
	PanelOnly bool `json:"panel_only"`
}

// EvolutionModel is the read model of the channel evolution view.
type EvolutionModel struct {
	Source   *client.ChannelEvolution    `json:"-"`
	Channels []string                    `json:"channels"`
	Trends   []normalize.Trend           `json:"trends"`
	Heatmap  normalize.Heatmap           `json:"heatmap"`
	Summary  normalize.EvolutionOverview `json:"summary"`
	// Baseline is the reference group's score, drawn as a reference line.
	Baseline float64 `json:"baseline"`
}

// EvolutionView tracks per-channel likeness over the years.  The set of
// channels drawn is derived state: it resets to the top and bottom trends
// on every new snapshot and toggling it never refetches.
type EvolutionView struct {
	*Controller[EvolutionFilter, EvolutionModel]
	deps *Deps

	selMu    sync.Mutex
	selected map[string]bool
	// seq and state of the snapshot the selection was last reset from
	resetSeq   uint64
	resetState State
}

// NewEvolutionView builds the evolution view.
func NewEvolutionView(d *Deps) *EvolutionView {
	v := &EvolutionView{deps: d, selected: map[string]bool{}}
	v.Controller = NewController("evolution", v.fetch, d.options()...)
	v.Subscribe(v.resetSelection)
	return v
}

// DefaultFilter is the configured initial filter.
func (v *EvolutionView) DefaultFilter() EvolutionFilter {
	return EvolutionFilter{MinYears: v.deps.Config().Views.DefaultMinYears}
}

func (v *EvolutionView) fetch(ctx context.Context, f EvolutionFilter) (EvolutionModel, error) {
	if f.MinYears < 1 {
		return EvolutionModel{}, errors.InvalidParam("min_years must be at least 1")
	}
	src, err := v.deps.Client.Stats().ChannelEvolution(ctx, f.MinYears, f.PanelOnly)
	if err != nil {
		return EvolutionModel{}, err
	}
	cfg := v.deps.Config()
	trends := normalize.EvolutionTrends(src, cfg.Transform.SlopeEpsilon)
	low, high := v.deps.heatAnchors()
	return EvolutionModel{
		Source:   src,
		Channels: normalize.Channels(src),
		Trends:   trends,
		Heatmap:  normalize.EvolutionHeatmap(src, trends, normalize.MaxEvolutionScore, low, high),
		Summary:  normalize.EvolutionSummary(src, trends),
		Baseline: cfg.Reference.BaselineScore,
	}, nil
}

// resetSelection runs outside the controller lock, so a notification can
// arrive after a newer one.  Only a transition newer than the last applied
// one resets the drawn set; an entity selection on the same snapshot keeps it.
func (v *EvolutionView) resetSelection(s Snapshot[EvolutionFilter, EvolutionModel]) {
	if s.Seq < v.Snapshot().Seq {
		return
	}
	var channels []string
	if s.State == StateReady {
		views := v.deps.Config().Views
		channels = normalize.AutoSelect(s.Data.Trends, views.EvolutionTop, views.EvolutionBottom)
	}

	v.selMu.Lock()
	defer v.selMu.Unlock()
	if s.Seq < v.resetSeq || (s.Seq == v.resetSeq && (s.State == v.resetState || s.State == StateLoading)) {
		return
	}
	v.resetSeq, v.resetState = s.Seq, s.State
	v.replaceSelection(channels)
}

func (v *EvolutionView) setSelection(channels []string) {
	v.selMu.Lock()
	defer v.selMu.Unlock()
	v.replaceSelection(channels)
}

func (v *EvolutionView) replaceSelection(channels []string) {
	v.selected = make(map[string]bool, len(channels))
	for _, ch := range channels {
		v.selected[ch] = true
	}
}

// Toggle flips ch in the drawn set.  Unknown channels are ignored.
func (v *EvolutionView) Toggle(ch string) {
	s := v.Snapshot()
	if !s.Ready() || s.Data.Source == nil {
		return
	}
	if _, ok := s.Data.Source.Channels[ch]; !ok {
		return
	}
	v.selMu.Lock()
	defer v.selMu.Unlock()
	if v.selected[ch] {
		delete(v.selected, ch)
	} else {
		v.selected[ch] = true
	}
}

// SelectAll draws every channel.
func (v *EvolutionView) SelectAll() {
	v.setSelection(v.Snapshot().Data.Channels)
}

// SelectNone clears the drawn set.
func (v *EvolutionView) SelectNone() { v.setSelection(nil) }

// SelectChannels replaces the drawn set.  Unknown channels are dropped.
func (v *EvolutionView) SelectChannels(channels []string) {
	s := v.Snapshot()
	var known []string
	for _, ch := range channels {
		if s.Data.Source != nil {
			if _, ok := s.Data.Source.Channels[ch]; ok {
				known = append(known, ch)
			}
		}
	}
	v.setSelection(known)
}

// SelectedChannels returns the drawn set, lexically.
func (v *EvolutionView) SelectedChannels() []string {
	v.selMu.Lock()
	defer v.selMu.Unlock()
	out := make([]string, 0, len(v.selected))
	for ch := range v.selected {
		out = append(out, ch)
	}
	return category.Lexical(out)
}

// Series returns the year rows of the drawn channels from the current
// snapshot.
func (v *EvolutionView) Series() normalize.Matrix {
	return normalize.EvolutionSeries(v.Snapshot().Data.Source, v.SelectedChannels())
}
