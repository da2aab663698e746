// Package config defines the configuration structures for thumblens.  Loading
// lives in loader.go and defaults in defaults.go; this file holds plain data
// types and validation only.
package config

import (
	"fmt"
	"net/url"
	"regexp"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// APIConfig points at the external statistics service.
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	StaticPrefix string        `mapstructure:"static_prefix"`
	UserAgent    string        `mapstructure:"user_agent"`
}

// ReferenceConfig names the reference group every likeness score is measured
// against, and its baseline score.  BaselineScore is the only place the
// baseline is defined; the evolution and convergence views both read it here.
type ReferenceConfig struct {
	Group         string  `mapstructure:"group"`
	BaselineScore float64 `mapstructure:"baseline_score"`
}

// CategoriesConfig declares the explicit category order and colours.
type CategoriesConfig struct {
	Order         []string          `mapstructure:"order"`
	Palette       map[string]string `mapstructure:"palette"`
	FallbackColor string            `mapstructure:"fallback_color"`
	SeriesPalette []string          `mapstructure:"series_palette"`
}

// TransformConfig tunes the numeric transforms.
type TransformConfig struct {
	LowPercentile  float64 `mapstructure:"low_percentile"`
	HighPercentile float64 `mapstructure:"high_percentile"`
	PadFraction    float64 `mapstructure:"pad_fraction"`
	BinTolerance   float64 `mapstructure:"bin_tolerance"`
	SlopeEpsilon   float64 `mapstructure:"slope_epsilon"`
	HeatLow        string  `mapstructure:"heat_low"`
	HeatHigh       string  `mapstructure:"heat_high"`
}

// ViewsConfig holds per-view filter defaults.
type ViewsConfig struct {
	DefaultBins      int    `mapstructure:"default_bins"`
	DefaultK         int    `mapstructure:"default_k"`
	DefaultMethod    string `mapstructure:"default_method"`
	DefaultMinYears  int    `mapstructure:"default_min_years"`
	DefaultFeature   string `mapstructure:"default_feature"`
	EvolutionTop     int    `mapstructure:"evolution_top"`
	EvolutionBottom  int    `mapstructure:"evolution_bottom"`
	PageSize         int    `mapstructure:"page_size"`
	FetchConcurrency int    `mapstructure:"fetch_concurrency"`
}

// ServerConfig holds dashboard HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// MetricsConfig controls the prometheus registry.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	API        APIConfig        `mapstructure:"api"`
	Reference  ReferenceConfig  `mapstructure:"reference"`
	Categories CategoriesConfig `mapstructure:"categories"`
	Transform  TransformConfig  `mapstructure:"transform"`
	Views      ViewsConfig      `mapstructure:"views"`
	Server     ServerConfig     `mapstructure:"server"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        LogConfig        `mapstructure:"log"`
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of a fully-populated Config and
// returns the first problem found.
func (c *Config) Validate() error {
	// API
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: api.base_url %q must be an absolute http(s) URL", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("config: api.timeout must be ≥ 0, got %s", c.API.Timeout)
	}

	// Reference
	if c.Reference.Group == "" {
		return fmt.Errorf("config: reference.group is required")
	}
	if c.Reference.BaselineScore < 0 {
		return fmt.Errorf("config: reference.baseline_score must be ≥ 0, got %v", c.Reference.BaselineScore)
	}

	// Categories
	if len(c.Categories.Order) == 0 {
		return fmt.Errorf("config: categories.order must list at least one category")
	}
	seen := make(map[string]bool, len(c.Categories.Order))
	for _, cat := range c.Categories.Order {
		if seen[cat] {
			return fmt.Errorf("config: categories.order lists %q twice", cat)
		}
		seen[cat] = true
	}
	for cat, col := range c.Categories.Palette {
		if !hexColor.MatchString(col) {
			return fmt.Errorf("config: categories.palette[%s] %q is not a #rrggbb colour", cat, col)
		}
	}
	if !hexColor.MatchString(c.Categories.FallbackColor) {
		return fmt.Errorf("config: categories.fallback_color %q is not a #rrggbb colour", c.Categories.FallbackColor)
	}

	// Transform
	t := c.Transform
	if t.LowPercentile < 0 || t.HighPercentile > 1 || t.LowPercentile > t.HighPercentile {
		return fmt.Errorf("config: transform percentiles must satisfy 0 ≤ low ≤ high ≤ 1, got %v/%v", t.LowPercentile, t.HighPercentile)
	}
	if t.PadFraction < 0 {
		return fmt.Errorf("config: transform.pad_fraction must be ≥ 0, got %v", t.PadFraction)
	}
	if t.BinTolerance <= 0 {
		return fmt.Errorf("config: transform.bin_tolerance must be > 0, got %v", t.BinTolerance)
	}
	if t.SlopeEpsilon < 0 {
		return fmt.Errorf("config: transform.slope_epsilon must be ≥ 0, got %v", t.SlopeEpsilon)
	}
	if !hexColor.MatchString(t.HeatLow) || !hexColor.MatchString(t.HeatHigh) {
		return fmt.Errorf("config: transform heat anchors must be #rrggbb colours")
	}

	// Views
	if c.Views.DefaultBins < 5 || c.Views.DefaultBins > 100 {
		return fmt.Errorf("config: views.default_bins %d is out of range [5, 100]", c.Views.DefaultBins)
	}
	if c.Views.DefaultK < 2 || c.Views.DefaultK > 10 {
		return fmt.Errorf("config: views.default_k %d is out of range [2, 10]", c.Views.DefaultK)
	}
	if c.Views.DefaultMinYears < 1 {
		return fmt.Errorf("config: views.default_min_years must be ≥ 1, got %d", c.Views.DefaultMinYears)
	}
	if c.Views.FetchConcurrency < 1 {
		return fmt.Errorf("config: views.fetch_concurrency must be ≥ 1, got %d", c.Views.FetchConcurrency)
	}

	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
