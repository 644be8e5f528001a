package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"searchbridge/internal/cache"
	"searchbridge/internal/config"
	"searchbridge/internal/database"
	"searchbridge/internal/database/migration"
	handlers "searchbridge/internal/http/handler"
	"searchbridge/internal/http/middleware"
	"searchbridge/internal/otel"
	"searchbridge/internal/repository/postgres"
	"searchbridge/internal/service"
	"searchbridge/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var autoMigrate bool

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the HTTP API",
	RunE:  runAPI,
}

func init() {
	apiCmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "create the saved query schema before serving")
}

func runAPI(cmd *cobra.Command, _ []string) error {
	ctx, stop, a, err := bootstrap(cmd, (*config.AppConfig).Validate)
	if err != nil {
		return err
	}
	defer stop()
	return logExit(a.logger, serveAPI(ctx, a))
}

func serveAPI(ctx context.Context, a *app) error {
	shutdownTracing, err := otel.Init(ctx, "searchbridge-api", a.logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	searchCache := cache.New(a.cfg.Redis)
	searchSvc := service.NewSearchService(a.engine, searchCache, a.logger)

	health := map[string]handlers.Pinger{
		"search":   searchSvc,
		"database": nil,
		"cache":    nil,
	}
	if searchCache.Enabled() {
		health["cache"] = searchCache
	}
	deps := handlers.Dependencies{Search: searchSvc, Health: health}

	// Saved queries need PostgreSQL, exports need object storage. Either is
	// left unmounted when its backend is not configured.
	if database.Configured(a.cfg.Database) {
		db, err := openDatabase(ctx, a)
		if err != nil {
			return err
		}
		defer db.Close()
		health["database"] = handlers.PingFunc(db.PingContext)
		deps.Queries = service.NewSavedQueryService(postgres.NewSavedQueryPostgres(db), searchSvc)
	} else {
		a.logger.Info("saved_queries_disabled", zap.String("reason", "DB_HOST not set"))
	}

	if storage.Configured(a.cfg.MinIO) {
		store, err := storage.NewMinIO(ctx, a.cfg.MinIO)
		if err != nil {
			return fmt.Errorf("failed to initialize object storage: %w", err)
		}
		deps.Exports = service.NewExportService(a.engine, store, a.cfg.MinIO.PresignExpiry, a.logger)
	} else {
		a.logger.Info("exports_disabled", zap.String("reason", "MINIO_ENDPOINT not set"))
	}

	httpMetrics, err := middleware.NewPrometheusMiddleware(a.registry)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	srv := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	srv.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	srv.Use(middleware.RequestID())
	srv.Use(middleware.Logger(a.logger))
	srv.Use(httpMetrics.Handler())

	srv.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(srv, deps)

	addr := ":" + a.cfg.Port
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("http_server_started", zap.String("addr", addr))
		if err := srv.Listen(addr); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("http_server_stopping")
		return srv.ShutdownWithContext(sctx)
	})
	return g.Wait()
}

func openDatabase(ctx context.Context, a *app) (*sql.DB, error) {
	db, err := database.NewPostgres(ctx, a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if autoMigrate {
		if err := migration.EnsureMigrated(ctx, db, a.logger, a.cfg.Database.Host); err != nil {
			return nil, errors.Join(err, db.Close())
		}
	}
	return db, nil
}
