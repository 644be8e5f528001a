package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"searchbridge/internal/config"
	"searchbridge/internal/logging"
	"searchbridge/internal/search"
)

var rootCmd = &cobra.Command{
	Use:           "searchbridge",
	Short:         "HTTP and Kafka bridge to the search engine through generic maps",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd, workerCmd, migrateCmd)
}

// app is what every command builds before doing its own work.
type app struct {
	cfg      *config.AppConfig
	logger   *zap.Logger
	registry *prometheus.Registry
	engine   *search.Client
}

// bootstrap loads configuration, builds the logger and the engine client.
// The returned context is cancelled on SIGINT or SIGTERM.
func bootstrap(cmd *cobra.Command, validate func(*config.AppConfig) error) (context.Context, context.CancelFunc, *app, error) {
	cfg := config.Load()
	if err := validate(cfg); err != nil {
		return nil, nil, nil, err
	}

	logger := logging.New(cfg.LogLevel, cfg.Location()).With(zap.String("command", cmd.Name()))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := search.NewMetrics(reg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("register search metrics: %w", err)
	}
	engine, err := search.NewClient(cfg.Elasticsearch,
		search.WithLogger(logger),
		search.WithMetrics(metrics),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	return ctx, stop, &app{cfg: cfg, logger: logger, registry: reg, engine: engine}, nil
}

func logExit(logger *zap.Logger, err error) error {
	if err != nil {
		logger.Error("command_failed", zap.Error(err))
	}
	_ = logger.Sync()
	return err
}
