// Package prometheus registers the dashboard's metrics on a private
// prometheus registry and serves them for scraping.
package prometheus

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thumblens/thumblens/internal/infrastructure/monitoring/logging"
)

// CollectorConfig configures a Collector.
type CollectorConfig struct {
	Namespace            string
	EnableProcessMetrics bool
	EnableGoMetrics      bool
	// DefaultBuckets apply to histograms registered without buckets.
	DefaultBuckets []float64
}

// Collector owns one registry.  Each dashboard process (and each test)
// gets its own, so nothing is registered on the global default registry.
type Collector struct {
	registry *prometheus.Registry
	cfg      CollectorConfig
	logger   logging.Logger
}

// NewMetricsCollector builds a Collector over a fresh registry.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (*Collector, error) {
	if cfg.Namespace == "" {
		return nil, errors.New("metrics: namespace is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.DefaultBuckets == nil {
		cfg.DefaultBuckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: cfg.Namespace}))
	}
	if cfg.EnableGoMetrics {
		registry.MustRegister(collectors.NewGoCollector())
	}
	return &Collector{registry: registry, cfg: cfg, logger: logger}, nil
}

// Handler serves the registry in the OpenMetrics or text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Counter registers a counter vector under the collector's namespace.
func (c *Collector) Counter(name, help string, labels ...string) *prometheus.CounterVec {
	return register(c, name, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.cfg.Namespace,
		Name:      name,
		Help:      help,
	}, labels))
}

// Gauge registers a gauge vector.
func (c *Collector) Gauge(name, help string, labels ...string) *prometheus.GaugeVec {
	return register(c, name, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: c.cfg.Namespace,
		Name:      name,
		Help:      help,
	}, labels))
}

// Histogram registers a histogram vector; nil buckets take the default.
func (c *Collector) Histogram(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	if buckets == nil {
		buckets = c.cfg.DefaultBuckets
	}
	return register(c, name, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.cfg.Namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels))
}

// register returns the vector already registered under the same descriptor,
// or vec itself.  A vector that cannot be registered still records but is
// never scraped.
func register[T prometheus.Collector](c *Collector, name string, vec T) T {
	err := c.registry.Register(vec)
	if err == nil {
		return vec
	}
	var dup prometheus.AlreadyRegisteredError
	if errors.As(err, &dup) {
		if existing, ok := dup.ExistingCollector.(T); ok {
			return existing
		}
	}
	c.logger.Warn("metric not registered", logging.String("name", name), logging.Err(err))
	return vec
}
