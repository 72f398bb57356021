package cli

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phrazzld/anyapi/internal/catalog"
	"github.com/phrazzld/anyapi/internal/domain"
	"github.com/phrazzld/anyapi/internal/platform/postgres"
	"github.com/phrazzld/anyapi/internal/store"
)

// ImportResult lists the ids stored by the import command.
type ImportResult struct {
	Imported []string `json:"imported"`
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file|openapi-location>",
		Short: "Store API descriptions in the database",
		Long: "Store API descriptions in the database so servers with catalog.from_database pick them up. " +
			"Without --id the argument is a YAML or JSON description file; with --id it is an OpenAPI 3 " +
			"document (path or URL) converted into one description with that id. All descriptions are " +
			"stored in a single transaction.",
		Example: `  anyapi import descriptions/internal.yaml
  anyapi import https://petstore3.swagger.io/api/v3/openapi.json --id petstore`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cmd.Flags().GetString("id")
			if err != nil {
				return err
			}
			return runImport(cmd, args[0], strings.TrimSpace(id))
		},
	}

	cmd.Flags().String("id", "", "Treat the location as an OpenAPI document and register it under this id")
	return cmd
}

func runImport(cmd *cobra.Command, location, id string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	if rt.cfg.Database.URL == "" {
		return newUsageError("import: database.url must be configured")
	}

	ctx := cmd.Context()
	descs, err := readDescriptions(ctx, location, id)
	if err != nil {
		return err
	}

	// Validate the whole batch before touching the database.
	if err := catalog.NewBuilder(rt.logger).RegisterAll(descs); err != nil {
		return err
	}

	db, err := openDatabase(ctx, rt.cfg.Database.URL, rt.logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	descStore := postgres.NewPostgresDescriptionStore(db, rt.logger)
	result := ImportResult{Imported: make([]string, 0, len(descs))}
	err = store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := descStore.WithTx(tx)
		for _, d := range descs {
			if err := txStore.Upsert(ctx, d); err != nil {
				return err
			}
			result.Imported = append(result.Imported, d.ID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	rt.logger.Info("descriptions imported", "count", len(result.Imported))
	return report(cmd, result, nil)
}

func readDescriptions(ctx context.Context, location, id string) ([]*domain.Description, error) {
	if id != "" {
		d, err := catalog.LoadOpenAPI(ctx, id, location)
		if err != nil {
			return nil, err
		}
		return []*domain.Description{d}, nil
	}
	return catalog.LoadFile(location)
}
