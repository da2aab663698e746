package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultAPIBaseURL      = "http://localhost:8000"
	DefaultAPITimeout      = 30 * time.Second
	DefaultAPIStaticPrefix = "/static/thumbnails/"

	DefaultReferenceGroup = "mrbeast"
	DefaultBaselineScore  = 6.13

	DefaultFallbackColor = "#6b7280"

	DefaultLowPercentile  = 0.02
	DefaultHighPercentile = 0.98
	DefaultPadFraction    = 0.05
	DefaultBinTolerance   = 1e-4
	DefaultHeatLow        = "#3b82f6"
	DefaultHeatHigh       = "#dc2626"

	DefaultBins             = 20
	DefaultK                = 5
	DefaultMethod           = "kmeans"
	DefaultMinYears         = 3
	DefaultFeature          = "color.avg_saturation"
	DefaultEvolutionTop     = 5
	DefaultEvolutionBottom  = 3
	DefaultPageSize         = 50
	DefaultFetchConcurrency = 4

	DefaultServerPort      = 8080
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultMetricsNamespace = "thumblens"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultCategoryOrder is the reference group followed by the upload years.
func DefaultCategoryOrder() []string {
	return []string{
		"mrbeast",
		"2015", "2016", "2017", "2018", "2019", "2020",
		"2021", "2022", "2023", "2024", "2025",
	}
}

// DefaultPalette assigns each default category its chart colour.
func DefaultPalette() map[string]string {
	return map[string]string{
		"mrbeast": "#e6194b",
		"2015":    "#3cb44b",
		"2016":    "#4363d8",
		"2017":    "#f58231",
		"2018":    "#911eb4",
		"2019":    "#42d4f4",
		"2020":    "#f032e6",
		"2021":    "#bfef45",
		"2022":    "#fabed4",
		"2023":    "#469990",
		"2024":    "#dcbeff",
		"2025":    "#000075",
	}
}

// DefaultSeriesPalette colours channels and features, which have no fixed
// category colour.
func DefaultSeriesPalette() []string {
	return []string{
		"#e6194b", "#3cb44b", "#4363d8", "#f58231", "#911eb4",
		"#42d4f4", "#f032e6", "#bfef45", "#fabed4", "#469990",
		"#dcbeff", "#9a6324", "#800000", "#aaffc3", "#808000",
		"#000075", "#a9a9a9",
	}
}

// NewDefaultConfig returns a Config with every default applied.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Metrics.Enabled = true
	return cfg
}

// ApplyDefaults fills zero-value fields in cfg.  Values already set are kept.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── API ───────────────────────────────────────────────────────────────────
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultAPIBaseURL
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = DefaultAPITimeout
	}
	if cfg.API.StaticPrefix == "" {
		cfg.API.StaticPrefix = DefaultAPIStaticPrefix
	}

	// ── Reference ─────────────────────────────────────────────────────────────
	if cfg.Reference.Group == "" {
		cfg.Reference.Group = DefaultReferenceGroup
	}
	if cfg.Reference.BaselineScore == 0 {
		cfg.Reference.BaselineScore = DefaultBaselineScore
	}

	// ── Categories ────────────────────────────────────────────────────────────
	if len(cfg.Categories.Order) == 0 {
		cfg.Categories.Order = DefaultCategoryOrder()
	}
	if len(cfg.Categories.Palette) == 0 {
		cfg.Categories.Palette = DefaultPalette()
	}
	if cfg.Categories.FallbackColor == "" {
		cfg.Categories.FallbackColor = DefaultFallbackColor
	}
	if len(cfg.Categories.SeriesPalette) == 0 {
		cfg.Categories.SeriesPalette = DefaultSeriesPalette()
	}

	// ── Transform ─────────────────────────────────────────────────────────────
	// Percentiles of 0 are meaningful only as a pair, so both are defaulted
	// together when the high end is unset.
	if cfg.Transform.HighPercentile == 0 {
		cfg.Transform.HighPercentile = DefaultHighPercentile
		if cfg.Transform.LowPercentile == 0 {
			cfg.Transform.LowPercentile = DefaultLowPercentile
		}
	}
	if cfg.Transform.PadFraction == 0 {
		cfg.Transform.PadFraction = DefaultPadFraction
	}
	if cfg.Transform.BinTolerance == 0 {
		cfg.Transform.BinTolerance = DefaultBinTolerance
	}
	if cfg.Transform.HeatLow == "" {
		cfg.Transform.HeatLow = DefaultHeatLow
	}
	if cfg.Transform.HeatHigh == "" {
		cfg.Transform.HeatHigh = DefaultHeatHigh
	}

	// ── Views ─────────────────────────────────────────────────────────────────
	if cfg.Views.DefaultBins == 0 {
		cfg.Views.DefaultBins = DefaultBins
	}
	if cfg.Views.DefaultK == 0 {
		cfg.Views.DefaultK = DefaultK
	}
	if cfg.Views.DefaultMethod == "" {
		cfg.Views.DefaultMethod = DefaultMethod
	}
	if cfg.Views.DefaultMinYears == 0 {
		cfg.Views.DefaultMinYears = DefaultMinYears
	}
	if cfg.Views.DefaultFeature == "" {
		cfg.Views.DefaultFeature = DefaultFeature
	}
	if cfg.Views.EvolutionTop == 0 {
		cfg.Views.EvolutionTop = DefaultEvolutionTop
	}
	if cfg.Views.EvolutionBottom == 0 {
		cfg.Views.EvolutionBottom = DefaultEvolutionBottom
	}
	if cfg.Views.PageSize == 0 {
		cfg.Views.PageSize = DefaultPageSize
	}
	if cfg.Views.FetchConcurrency == 0 {
		cfg.Views.FetchConcurrency = DefaultFetchConcurrency
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
