package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/roster/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "roster: %v\n", err)
		return 1
	}
	return 0
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		prefsPath  string
		apiURL     string
	)
	root := &cobra.Command{
		Use:           "roster",
		Short:         "Browse a paged, sortable user directory in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: configPath,
				PrefsPath:  prefsPath,
				APIURL:     apiURL,
			})
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "override config path (default ~/.config/roster/config.toml)")
	root.Flags().StringVar(&prefsPath, "prefs", "", "override prefs path (default ~/.config/roster/prefs.toml)")
	root.PersistentFlags().StringVar(&apiURL, "api", "", "override api_url from the config")

	root.AddCommand(
		serveCmd(&configPath),
		dumpCmd(&configPath, &apiURL),
		logsCmd(&configPath),
	)
	return root
}

func serveCmd(configPath *string) *cobra.Command {
	opts := app.ServeOptions{SeedUsers: -1}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bundled SQLite user directory",
		Long: `Serve a randomuser-compatible /api endpoint backed by SQLite.
The database is seeded with generated users on first start. Point roster at it
with --api http://<listen>/api.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.ConfigPath = *configPath
			return app.Serve(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.Listen, "listen", "", "listen address (default from config)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database path (default from config)")
	cmd.Flags().IntVar(&opts.SeedUsers, "seed-users", -1, "users to generate into an empty database")
	cmd.Flags().BoolVar(&opts.JSONLogs, "json", false, "log JSON instead of text")
	return cmd
}

func dumpCmd(configPath, apiURL *string) *cobra.Command {
	var opts app.DumpOptions
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Fetch one page and print it as a table",
		Example: `  roster dump --page 2 --size 20
  roster dump --sort name:asc --sort email:desc --filter nat=US,GB
  roster dump --filter gender=female --search email=smith`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.ConfigPath = *configPath
			opts.APIURL = *apiURL
			return app.Dump(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.PageSize, "size", 0, "page size (default from config)")
	cmd.Flags().StringArrayVar(&opts.Sort, "sort", nil, "sort key as field:asc|desc, repeat for secondary keys")
	cmd.Flags().StringArrayVar(&opts.Filters, "filter", nil, "filter as column=v1,v2, repeatable")
	cmd.Flags().StringVar(&opts.Search, "search", "", "highlight matches as column=text")
	return cmd
}

func logsCmd(configPath *string) *cobra.Command {
	var lines int
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the tail of the TUI log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Logs(cmd.OutOrStdout(), *configPath, lines)
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines, 0 for all")
	return cmd
}
