// Package main implements the entry point for the taskfleet API server,
// which handles manager and developer accounts, task tracking, and the
// enqueueing of email notifications for a separate worker process.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/taskfleet/taskfleet/internal/config"
	"github.com/taskfleet/taskfleet/internal/platform/logger"
	"github.com/taskfleet/taskfleet/internal/platform/postgres"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "apply pending migrations and exit")
	flag.Parse()

	// Missing .env is fine; configuration then comes from the process
	// environment alone.
	_ = godotenv.Load()

	if err := run(*migrateOnly); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(migrateOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	ctx := context.Background()
	if err := postgres.RunMigrations(ctx, db, appLogger); err != nil {
		return err
	}
	if migrateOnly {
		appLogger.Info("migrations applied, exiting")
		return nil
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
