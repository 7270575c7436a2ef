// Package main implements the entry point for the flashdeck API server,
// which turns study material into AI-generated flashcard proposals.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/phrazzld/flashdeck-api/internal/platform/postgres"
)

func main() {
	migrate := flag.String("migrate", "", "run a migration command (up, down, status, version) and exit")
	flag.Parse()

	if err := run(context.Background(), *migrate); err != nil {
		log.Fatalf("flashdeck-api: %v", err)
	}
}

func run(ctx context.Context, migrateCommand string) error {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if migrateCommand != "" {
		defer func() { _ = db.Close() }()
		return postgres.Migrate(ctx, db, migrateCommand, logger)
	}

	shutdownTracing, err := setupAppTracing(cfg, logger)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	app, err := newApplication(ctx, cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
