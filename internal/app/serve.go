package app

import (
	"context"
	"fmt"
	"os"

	"github.com/five82/roster/internal/directory"
	"github.com/five82/roster/internal/logging"
)

// ServeOptions configure the bundled directory server. Empty fields and a
// negative SeedUsers fall back to the config file.
type ServeOptions struct {
	ConfigPath string
	Listen     string
	DBPath     string
	SeedUsers  int
	JSONLogs   bool
}

// Serve opens (and seeds, when empty) the directory database and serves it
// until ctx is cancelled.
func Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := loadConfig(opts.ConfigPath, "")
	if err != nil {
		return err
	}
	if opts.Listen != "" {
		cfg.Serve.Listen = opts.Listen
	}
	if opts.DBPath != "" {
		cfg.Serve.DBPath = opts.DBPath
	}
	if opts.SeedUsers >= 0 {
		cfg.Serve.SeedUsers = opts.SeedUsers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Output: os.Stderr,
		JSON:   opts.JSONLogs,
		Prefix: "serve",
	})

	store, err := directory.Open(ctx, cfg.Serve.DBPath)
	if err != nil {
		return fmt.Errorf("open directory: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close directory", "error", err)
		}
	}()

	inserted, err := store.SeedIfEmpty(ctx, cfg.Seed, cfg.Serve.SeedUsers)
	if err != nil {
		return err
	}
	if inserted > 0 {
		logger.Info("seeded directory", "users", inserted, "seed", cfg.Seed, "db", cfg.Serve.DBPath)
	}

	return directory.NewServer(store, logger).Run(ctx, cfg.Serve.Listen)
}
