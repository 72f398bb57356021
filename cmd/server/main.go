// Package main implements the entry point for the anyapi server, an HTTP
// proxy that lets clients call any described REST API through one uniform
// interface.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/phrazzld/anyapi/internal/platform/postgres"
)

// options are the command-line flags of the server binary.
type options struct {
	// migrate runs a migration command against database.url and exits.
	migrate string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("anyapi-server", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.migrate, "migrate", "",
		fmt.Sprintf("run a database migration command and exit (%v)", postgres.MigrationCommands))
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	if err := run(context.Background(), opts); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// run loads configuration, sets up logging and the optional database, then
// either executes the requested migration or serves HTTP until shutdown.
func run(ctx context.Context, opts options) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	if opts.migrate != "" {
		return runMigration(ctx, cfg, opts.migrate, logger)
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, logger, db)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
