// Package http serves the dashboard: HTML chart pages, the JSON read models
// behind them, health probes and metrics.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/thumblens/thumblens/internal/infrastructure/monitoring/logging"
	"github.com/thumblens/thumblens/internal/infrastructure/monitoring/prometheus"
	"github.com/thumblens/thumblens/internal/interfaces/http/handlers"
	"github.com/thumblens/thumblens/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware of the route tree.
type RouterConfig struct {
	ViewHandler   *handlers.ViewHandler
	HealthHandler *handlers.HealthHandler

	CORS    *middleware.CORSConfig
	Logging middleware.LoggingConfig

	Logger  logging.Logger
	Metrics *prometheus.DashboardMetrics
}

// NewRouter builds the route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(chimw.Recoverer)

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Get("/", handlers.Index)
	if h := cfg.ViewHandler; h != nil {
		r.Get("/views/{name}", h.Page)
		r.Route("/api", func(api chi.Router) {
			if cfg.CORS != nil {
				api.Use(middleware.CORS(*cfg.CORS))
			}
			api.Get("/views/{name}", h.JSON)
			api.Get("/thumbnails/{id}", h.Thumbnail)
		})
	}

	return r
}
