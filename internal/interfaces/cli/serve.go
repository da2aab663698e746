package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thumblens/thumblens/internal/config"
	"github.com/thumblens/thumblens/internal/infrastructure/monitoring/logging"
	"github.com/thumblens/thumblens/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/thumblens/thumblens/internal/interfaces/http"
	"github.com/thumblens/thumblens/internal/interfaces/http/handlers"
	"github.com/thumblens/thumblens/internal/interfaces/http/middleware"
	"github.com/thumblens/thumblens/internal/view"
	"github.com/thumblens/thumblens/pkg/client"
)

func newServeCmd() *cobra.Command {
	var (
		port    int
		origins []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cc.Config
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			logger, err := logging.NewLogger(logging.LogConfig{
				Level:       cfg.Log.Level,
				Format:      cfg.Log.Format,
				OutputPaths: cfg.Log.OutputPaths,
			})
			if err != nil {
				return err
			}
			srv, deps, err := buildServer(cfg, logger, origins)
			if err != nil {
				return err
			}

			if cc.ConfigPath != "" {
				reloadOnChange(cc.ConfigPath, deps, logger)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting dashboard",
				logging.String("version", Version),
				logging.String("api", cfg.API.BaseURL),
				logging.String("addr", srv.Addr()))
			return srv.Run(ctx)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default: server.port)")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "origins allowed to call /api")
	return cmd
}

// reloadOnChange applies every valid rewrite of path to deps.  Categories,
// palette, reference and view defaults take effect on the next request; api,
// server and log settings need a restart.
func reloadOnChange(path string, deps *view.Deps, logger logging.Logger) {
	config.Watch(path, func(next *config.Config) {
		deps.Reload(next)
		logger.Info("config file reloaded", logging.String("path", path))
	}, func(err error) {
		logger.Error("config file changed but is invalid, keeping the previous one",
			logging.String("path", path), logging.Err(err))
	})
}

// buildServer wires the dashboard: metrics, the instrumented statistics
// client, the view handlers and the router.  The returned deps take config
// reloads.
func buildServer(cfg *config.Config, logger logging.Logger, origins []string) (*httpserver.Server, *view.Deps, error) {
	var metrics *prometheus.DashboardMetrics
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		metrics = prometheus.NewDashboardMetrics(collector)
	}

	var observer client.RequestObserver
	if metrics != nil {
		observer = metrics.ObserveAPIRequest
	}
	apiClient, err := newClient(cfg, logger, observer)
	if err != nil {
		return nil, nil, err
	}

	deps := view.NewDeps(apiClient, cfg, logger, metrics)
	routerCfg := httpserver.RouterConfig{
		ViewHandler:   handlers.NewViewHandler(deps),
		HealthHandler: handlers.NewHealthHandler(Version, handlers.APIChecker{Client: apiClient}),
		Logging:       middleware.DefaultLoggingConfig(),
		Logger:        logger.Named("http"),
		Metrics:       metrics,
	}
	if len(origins) > 0 {
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = origins
		routerCfg.CORS = &cors
	}
	return httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger), deps, nil
}
