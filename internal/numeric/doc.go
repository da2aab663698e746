// Package numeric holds the pure transforms the dashboard views are built
// from: percentile-clipped axis domains, histogram bin alignment across
// categories, baseline ratios, heat colours and slope classification.
//
// Nothing here returns an error for degenerate input.  Empty series, zero
// variance and zero baselines all map to documented fallback values.
package numeric
