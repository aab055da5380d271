package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/kalyankadiyala/commitcoord/internal/config"
	"github.com/kalyankadiyala/commitcoord/internal/coordinator"
	"github.com/kalyankadiyala/commitcoord/internal/transport/httpapi"
	"github.com/kalyankadiyala/commitcoord/pkg/logger"
	"github.com/kalyankadiyala/commitcoord/pkg/metrics"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the coordinator's HTTP front-end",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			log := logger.NewLogger(logger.Config{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Output: cfg.Log.Output,
			})

			var m *metrics.CoordinatorMetrics
			if cfg.Metrics.Enabled {
				m = metrics.NewCoordinatorMetrics(cfg.Metrics.Namespace)
			}

			coord := coordinator.New(
				cfg.Coordinator.MaxUnbackfilledCommits,
				coordinator.WithLogger(log),
				coordinator.WithMetrics(m),
			)

			server := httpapi.NewServer(
				coord,
				httpapi.WithLogger(log),
				httpapi.WithRateLimit(float64(cfg.HTTP.RateLimitPerSec), cfg.HTTP.RateLimitBurst),
			)

			addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
			log.Info("coordinator listening", "addr", addr)
			return http.ListenAndServe(addr, server)
		},
	}
}
