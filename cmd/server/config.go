package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/anyapi/internal/config"
	"github.com/phrazzld/anyapi/internal/platform/logger"
)

// loadAppConfig loads the application configuration from environment variables or config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupAppLogger configures the application logger from the server settings
// and logs the non-secret parts of the configuration.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"upstream_timeout_seconds", cfg.Upstream.TimeoutSeconds,
		"include_builtin", cfg.Catalog.IncludeBuiltin,
		"from_database", cfg.Catalog.FromDatabase)

	if cfg.Database.URL != "" {
		l.Debug("Database configuration", "url_present", true)
	}
	if cfg.AuthEnabled() {
		l.Debug("Auth configuration",
			"jwt_secret_present", cfg.Auth.JWTSecret != "",
			"client_key_count", len(cfg.Auth.ClientKeyHashes))
	}
	return l, nil
}
