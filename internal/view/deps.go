package view

import (
	"sync/atomic"

	"github.com/thumblens/thumblens/internal/binding"
	"github.com/thumblens/thumblens/internal/config"
	"github.com/thumblens/thumblens/internal/domain/category"
	"github.com/thumblens/thumblens/internal/infrastructure/monitoring/logging"
	"github.com/thumblens/thumblens/internal/infrastructure/monitoring/prometheus"
	"github.com/thumblens/thumblens/internal/numeric"
	"github.com/thumblens/thumblens/pkg/client"
)

// Deps are the collaborators every view is built from.
type Deps struct {
	Client  *client.Client
	Logger  logging.Logger
	Metrics *prometheus.DashboardMetrics

	settings atomic.Pointer[settings]
}

// settings is everything derived from one config.  It is swapped whole so a
// reader never sees the order of one config with the palette of another.
type settings struct {
	cfg     *config.Config
	order   *category.Order
	palette *binding.Palette
}

func newSettings(cfg *config.Config) *settings {
	return &settings{
		cfg:     cfg,
		order:   category.NewOrder(cfg.Categories.Order),
		palette: binding.PaletteFromConfig(cfg),
	}
}

// NewDeps fills in a default config and a no-op logger where they are nil.
func NewDeps(c *client.Client, cfg *config.Config, logger logging.Logger, metrics *prometheus.DashboardMetrics) *Deps {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	d := &Deps{Client: c, Logger: logger, Metrics: metrics}
	d.settings.Store(newSettings(cfg))
	return d
}

// Reload applies cfg to every later fetch and chart.  Snapshots already
// loaded keep what they were built with.  The API client and the listener
// keep their startup settings.
func (d *Deps) Reload(cfg *config.Config) {
	if cfg == nil {
		return
	}
	d.settings.Store(newSettings(cfg))
	d.Logger.Info("config reloaded",
		logging.Strings("categories", cfg.Categories.Order),
		logging.String("reference", cfg.Reference.Group),
		logging.Float64("baseline", cfg.Reference.BaselineScore))
}

// Config is the current config.
func (d *Deps) Config() *config.Config { return d.settings.Load().cfg }

// Order is the configured category order.
func (d *Deps) Order() *category.Order { return d.settings.Load().order }

// Palette is the configured chart palette.
func (d *Deps) Palette() *binding.Palette { return d.settings.Load().palette }

func (d *Deps) options() []Option {
	return []Option{WithLogger(d.Logger.Named("view")), WithMetrics(d.Metrics)}
}

func (d *Deps) heatAnchors() (low, high numeric.RGB) {
	low, high = numeric.DefaultHeatLow, numeric.DefaultHeatHigh
	t := d.Config().Transform
	if c, err := numeric.ParseHex(t.HeatLow); err == nil {
		low = c
	}
	if c, err := numeric.ParseHex(t.HeatHigh); err == nil {
		high = c
	}
	return low, high
}
