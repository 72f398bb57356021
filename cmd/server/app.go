package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/anyapi/internal/catalog"
	"github.com/phrazzld/anyapi/internal/config"
	"github.com/phrazzld/anyapi/internal/events"
	"github.com/phrazzld/anyapi/internal/platform/postgres"
	"github.com/phrazzld/anyapi/internal/proxy"
	"github.com/phrazzld/anyapi/internal/service"
	"github.com/phrazzld/anyapi/internal/service/auth"
	"github.com/phrazzld/anyapi/internal/store"
	"github.com/phrazzld/anyapi/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Catalog and its optional persistent source
	descriptionStore store.DescriptionStore
	catalog          *catalog.Catalog

	// Service interfaces
	executor     proxy.Executor
	proxyService service.ProxyService
	jwtService   auth.JWTService
	clientKeys   *auth.ClientKeyVerifier

	// Event system; taskRunner is nil when events are delivered synchronously
	eventEmitter events.EventEmitter
	taskRunner   *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies initialized.
// db may be nil when no database is configured.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	if db != nil {
		app.descriptionStore = postgres.NewPostgresDescriptionStore(db, logger)
	}

	var err error
	app.catalog, err = catalog.Load(ctx, cfg.Catalog, app.descriptionStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load API catalog: %w", err)
	}

	app.executor = proxy.NewHTTPExecutor(proxy.ExecutorConfig{
		Timeout:      time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
		MaxBodyBytes: cfg.Upstream.MaxBodyBytes,
	}, logger)

	emitter := events.NewInMemoryEventEmitter(logger)
	var callLog events.EventHandler = events.NewLoggingHandler(logger)
	if cfg.Events.Workers > 0 {
		app.taskRunner = task.NewTaskRunner(task.TaskRunnerConfig{
			WorkerCount: cfg.Events.Workers,
			QueueSize:   cfg.Events.QueueSize,
		}, logger)
		app.taskRunner.Start()
		callLog = task.NewEventDeliveryHandler(callLog, app.taskRunner, logger)
	}
	emitter.RegisterHandler(callLog)
	app.eventEmitter = emitter

	app.proxyService, err = service.NewProxyService(
		app.catalog,
		app.executor,
		app.eventEmitter,
		logger,
		proxy.BuildOptions{UserAgent: cfg.Upstream.UserAgent},
	)
	if err != nil {
		app.stopTaskRunner()
		return nil, fmt.Errorf("failed to create proxy service: %w", err)
	}

	app.clientKeys = auth.NewClientKeyVerifier(cfg.Auth.ClientKeyHashes)
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	switch {
	case errors.Is(err, auth.ErrAuthNotConfigured):
		app.jwtService = nil
	case err != nil:
		app.stopTaskRunner()
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	default:
		logger.Info("JWT authentication service initialized",
			"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)
	}
	if !cfg.AuthEnabled() {
		logger.Warn("Inbound authentication is disabled; any client can use the proxy")
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// healthCheck reports whether the database, when configured, is reachable.
func (app *application) healthCheck(ctx context.Context) error {
	if app.db == nil {
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return app.db.PingContext(pingCtx)
}

// stopTaskRunner drains queued event deliveries, waiting at most shutdownTimeout.
func (app *application) stopTaskRunner() {
	if app.taskRunner == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.taskRunner.Stop(ctx); err != nil {
		app.logger.Error("Event delivery did not finish before shutdown", "error", err)
	}
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	app.stopTaskRunner()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
