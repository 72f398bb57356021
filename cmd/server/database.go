package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/anyapi/internal/config"
	"github.com/phrazzld/anyapi/internal/platform/postgres"
)

// setupAppDatabase establishes a connection to the database and configures
// the connection pool. It returns a nil *sql.DB when no database is configured.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	if cfg.Database.URL == "" {
		logger.Info("No database configured, descriptions come from files only")
		return nil, nil
	}
	return postgres.Open(ctx, cfg.Database.URL, logger)
}

// runMigration executes a goose command against the configured database.
func runMigration(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Database.URL == "" {
		return errors.New("database.url must be set to run migrations")
	}

	db, err := postgres.Open(ctx, cfg.Database.URL, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}()

	logger.Info("Executing migrations", "command", command)
	if err := postgres.Migrate(ctx, db, command, logger); err != nil {
		return err
	}
	logger.Info("Migrations finished", "command", command)
	return nil
}
