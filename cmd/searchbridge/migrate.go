package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"searchbridge/internal/config"
	"searchbridge/internal/database"
	"searchbridge/internal/database/migration"
	"searchbridge/internal/indexdef"
	"searchbridge/internal/service"
)

var definitionsPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the saved query schema and apply index definitions",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&definitionsPath, "definitions", "", "index definitions file (default $INDEX_DEFINITIONS)")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx, stop, a, err := bootstrap(cmd, (*config.AppConfig).Validate)
	if err != nil {
		return err
	}
	defer stop()
	return logExit(a.logger, migrate(ctx, a))
}

func migrate(ctx context.Context, a *app) error {
	if database.Configured(a.cfg.Database) {
		db, err := database.NewPostgres(ctx, a.cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		if err := migration.EnsureMigrated(ctx, db, a.logger, a.cfg.Database.Host); err != nil {
			return err
		}
	} else {
		a.logger.Info("db_migration_skip", zap.String("reason", "DB_HOST not set"))
	}

	path := definitionsPath
	if path == "" {
		path = a.cfg.IndexDefinitions
	}
	defs, err := indexdef.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		a.logger.Info("index_definitions_skip", zap.String("path", path), zap.String("reason", "file not found"))
		return nil
	}
	if err != nil {
		return err
	}

	svc := service.NewSearchService(a.engine, nil, a.logger)
	res, err := defs.Apply(ctx, svc, a.logger)
	if err != nil {
		return err
	}
	a.logger.Info("index_definitions_applied",
		zap.String("path", path),
		zap.Strings("templates", res.Templates),
		zap.Strings("created", res.Created),
		zap.Strings("existing", res.Existing),
	)
	return nil
}
