package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/five82/roster/internal/config"
	"github.com/five82/roster/internal/logging"
	"github.com/five82/roster/internal/prefs"
	"github.com/five82/roster/internal/randomuser"
	"github.com/five82/roster/internal/state"
	"github.com/five82/roster/internal/table"
	"github.com/five82/roster/internal/ui"
)

// Options configure the roster TUI.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/roster/prefs.toml
	APIURL     string // overrides api_url from the config file
}

// Run boots the roster TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts.ConfigPath, opts.APIURL)
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Output: logFile, Prefix: "tui"})

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("using default prefs", "error", err)
	}
	pageSize := cfg.PageSize
	if userPrefs.PageSize > 0 && userPrefs.PageSize <= cfg.MaxPageSize {
		pageSize = userPrefs.PageSize
	}

	store, err := state.NewStore(pageSize, cfg.MaxPageSize)
	if err != nil {
		return err
	}
	ctrl, err := newController(cfg, store, logger)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	logger.Info("starting", "api", cfg.APIURL, "page_size", pageSize, "refresh_every", cfg.RefreshEvery)
	err = ui.Run(ui.Options{
		Context:      ctx,
		Controller:   ctrl,
		Logger:       logger,
		PageSizes:    cfg.PageSizeChoices(),
		RefreshEvery: cfg.RefreshEvery,
		ThemeName:    userPrefs.Theme,
		PrefsPath:    opts.PrefsPath,
		Source:       cfg.APIURL,
	})
	logger.Info("stopped", "fetches", ctrl.FetchCount())
	return err
}

// loadConfig reads the config file and applies the --api override.
func loadConfig(path, apiURL string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func newController(cfg config.Config, store *state.Store, logger *log.Logger) (*table.Controller[randomuser.User], error) {
	client, err := randomuser.NewClient(cfg.APIURL, randomuser.Options{
		Timeout:      cfg.Timeout,
		Retries:      cfg.Retries,
		Seed:         cfg.Seed,
		AssumedTotal: cfg.AssumedTotal,
	})
	if err != nil {
		return nil, fmt.Errorf("init users client: %w", err)
	}
	return table.NewController[randomuser.User](store, client, table.WithLogger(logger)), nil
}
