// Package binding maps normalized read models onto chart specifications:
// series, colours, axis bounds and tooltip formats.  It derives nothing
// numerically; that is left to the normalize and numeric packages.
package binding

import (
	"github.com/thumblens/thumblens/internal/config"
	"github.com/thumblens/thumblens/internal/domain/category"
)

// Palette assigns category colours.  A declared category keeps its colour
// whatever order the data arrives in; an undeclared one gets the fallback.
type Palette struct {
	order    *category.Order
	colors   map[string]string
	series   []string
	fallback string
}

// NewPalette builds a palette.  A declared category with no explicit colour
// takes the series colour at its declared position.
func NewPalette(order *category.Order, colors map[string]string, series []string, fallback string) *Palette {
	if len(series) == 0 {
		series = config.DefaultSeriesPalette()
	}
	if fallback == "" {
		fallback = config.DefaultFallbackColor
	}
	return &Palette{order: order, colors: colors, series: series, fallback: fallback}
}

// PaletteFromConfig builds the configured palette.
func PaletteFromConfig(cfg *config.Config) *Palette {
	c := cfg.Categories
	return NewPalette(category.NewOrder(c.Order), c.Palette, c.SeriesPalette, c.FallbackColor)
}

// Color returns the colour of category c.
func (p *Palette) Color(c string) string {
	i, ok := p.order.Index(c)
	if !ok {
		return p.fallback
	}
	if col, ok := p.colors[c]; ok {
		return col
	}
	return p.series[i%len(p.series)]
}

// Colors returns the colours of cats, index-aligned.
func (p *Palette) Colors(cats []string) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = p.Color(c)
	}
	return out
}

// SeriesColors colours free-form series (channels, features, clusters) by
// their lexical position among names, so a name keeps its colour across
// renders of the same set.
func (p *Palette) SeriesColors(names []string) map[string]string {
	out := make(map[string]string, len(names))
	for i, n := range category.Lexical(names) {
		out[n] = p.series[i%len(p.series)]
	}
	return out
}

// IndexColor returns the series colour at position i.
func (p *Palette) IndexColor(i int) string {
	if i < 0 {
		i = -i
	}
	return p.series[i%len(p.series)]
}

// Fallback returns the colour of undeclared categories.
func (p *Palette) Fallback() string { return p.fallback }
