package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/safar/shop-admin/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "api",
		Short: "Shop admin API server",
		Long: `Serve the shop admin and storefront HTTP API, or manage the database schema.

Examples:
  api                    # same as "api serve"
  api serve --port 9090
  api migrate up
  api migrate down --steps 1`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	// serve flags also work on the bare root command
	cobraflags.RegisterMap(root, serveFlags)

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	return root
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
