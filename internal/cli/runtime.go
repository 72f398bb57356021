package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/anyapi/internal/catalog"
	"github.com/phrazzld/anyapi/internal/config"
	"github.com/phrazzld/anyapi/internal/events"
	"github.com/phrazzld/anyapi/internal/platform/logger"
	"github.com/phrazzld/anyapi/internal/platform/postgres"
	"github.com/phrazzld/anyapi/internal/proxy"
	"github.com/phrazzld/anyapi/internal/service"
	"github.com/phrazzld/anyapi/internal/store"
)

// openDatabase is replaced in tests.
var openDatabase func(ctx context.Context, url string, logger *slog.Logger) (*sql.DB, error) = postgres.Open

// runtime is the resolved configuration and logger of one command run.
type runtime struct {
	cfg    *config.Config
	logger *slog.Logger
}

// newRuntime loads configuration from the --config flag, or the usual
// server sources when it is empty, and sends logs to stderr. Logging is
// limited to warnings unless --verbose is set.
func newRuntime(cmd *cobra.Command) (*runtime, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if path = strings.TrimSpace(path); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.SetupWriter(config.ServerConfig{LogLevel: level}, cmd.ErrOrStderr())

	return &runtime{cfg: cfg, logger: log.With(slog.String("component", "cli"))}, nil
}

// proxyService builds the catalog and the service the same way the server
// does. The database, when the catalog reads from it, is only held open
// while the catalog loads.
func (rt *runtime) proxyService(ctx context.Context) (service.ProxyService, error) {
	var descStore store.DescriptionStore
	if rt.cfg.Catalog.FromDatabase {
		db, err := openDatabase(ctx, rt.cfg.Database.URL, rt.logger)
		if err != nil {
			return nil, err
		}
		defer func() { _ = db.Close() }()
		descStore = postgres.NewPostgresDescriptionStore(db, rt.logger)
	}

	cat, err := catalog.Load(ctx, rt.cfg.Catalog, descStore, rt.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load API catalog: %w", err)
	}

	executor := proxy.NewHTTPExecutor(proxy.ExecutorConfig{
		Timeout:      time.Duration(rt.cfg.Upstream.TimeoutSeconds) * time.Second,
		MaxBodyBytes: rt.cfg.Upstream.MaxBodyBytes,
	}, rt.logger)

	emitter := events.NewInMemoryEventEmitter(rt.logger)
	emitter.RegisterHandler(events.NewLoggingHandler(rt.logger))

	return service.NewProxyService(cat, executor, emitter, rt.logger,
		proxy.BuildOptions{UserAgent: rt.cfg.Upstream.UserAgent})
}

// serviceFunc is one proxy operation run by withService.
type serviceFunc func(ctx context.Context, svc service.ProxyService) (any, error)

// withService resolves the runtime, builds the proxy service and reports the
// result of fn as an envelope.
func withService(cmd *cobra.Command, fn serviceFunc) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	svc, err := rt.proxyService(ctx)
	if err != nil {
		return err
	}
	data, err := fn(ctx, svc)
	return report(cmd, data, err)
}
