package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/anyapi/internal/config"
	"github.com/phrazzld/anyapi/internal/store"
)

// Load builds the catalog from every configured source in the order builtin,
// database, files, OpenAPI documents. A later source overwrites an earlier
// description with the same id. descStore may be nil when cfg.FromDatabase is false.
func Load(
	ctx context.Context,
	cfg config.CatalogConfig,
	descStore store.DescriptionStore,
	logger *slog.Logger,
) (*Catalog, error) {
	b := NewBuilder(logger)

	if cfg.IncludeBuiltin {
		descs, err := LoadBuiltin()
		if err != nil {
			return nil, err
		}
		if err := b.RegisterAll(descs); err != nil {
			return nil, fmt.Errorf("builtin catalog: %w", err)
		}
	}

	if cfg.FromDatabase {
		if descStore == nil {
			return nil, errors.New("catalog.from_database is set but no description store is available")
		}
		descs, err := descStore.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list stored descriptions: %w", err)
		}
		if err := b.RegisterAll(descs); err != nil {
			return nil, fmt.Errorf("stored description: %w", err)
		}
	}

	for _, file := range cfg.Files {
		descs, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		if err := b.RegisterAll(descs); err != nil {
			return nil, fmt.Errorf("description file %s: %w", file, err)
		}
	}

	for _, src := range cfg.OpenAPI {
		d, err := LoadOpenAPI(ctx, src.ID, src.Location)
		if err != nil {
			return nil, err
		}
		if err := b.Register(d); err != nil {
			return nil, fmt.Errorf("openapi source %s: %w", src.ID, err)
		}
	}

	c := b.Build()
	LogSummary(logger, c)
	return c, nil
}

// LogSummary writes the startup banner: totals followed by one line per API.
func LogSummary(logger *slog.Logger, c *Catalog) {
	if logger == nil {
		logger = slog.Default()
	}
	s := c.Summary()
	logger.Info("api catalog loaded",
		"total", s.Total,
		"public", s.Public,
		"authenticated", s.Authenticated)
	for _, d := range c.List() {
		logger.Info("registered api",
			"api_id", d.ID,
			"name", d.Name,
			"requires_auth", d.RequiresAuth,
			"endpoint_count", len(d.Endpoints))
	}
}
