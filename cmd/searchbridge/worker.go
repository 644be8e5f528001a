package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"searchbridge/internal/config"
	"searchbridge/internal/otel"
	"searchbridge/internal/worker"
)

var metricsAddr string

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the Kafka consumer that indexes document events. Deploy separately from api.",
	RunE:  runWorker,
}

func init() {
	workerCmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "address of the /metrics endpoint, empty to disable")
}

func runWorker(cmd *cobra.Command, _ []string) error {
	ctx, stop, a, err := bootstrap(cmd, (*config.AppConfig).ValidateWorker)
	if err != nil {
		return err
	}
	defer stop()
	return logExit(a.logger, consume(ctx, a))
}

func consume(ctx context.Context, a *app) error {
	shutdownTracing, err := otel.Init(ctx, "searchbridge-worker", a.logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	metrics, err := worker.NewMetrics(a.registry)
	if err != nil {
		return fmt.Errorf("register worker metrics: %w", err)
	}

	reader := worker.NewReader(a.cfg.Kafka)
	defer reader.Close()

	indexer := worker.New(reader, a.engine, a.cfg.Kafka, a.logger, worker.WithMetrics(metrics))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("worker_started",
			zap.String("group_id", a.cfg.Kafka.GroupID),
			zap.Strings("topics", a.cfg.Kafka.Topics),
		)
		return indexer.Run(gctx)
	})

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	err = g.Wait()
	a.logger.Info("worker_stopped")
	return err
}
