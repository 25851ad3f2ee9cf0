package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/moviedeck/internal/config"
	"github.com/vadimtrunov/moviedeck/internal/frontend/web"
)

// newWebCmd returns the "web" subcommand serving the dashboard over HTTP.
func newWebCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the dashboard as a web page",
		Long: "Serve the popular-movies dashboard over HTTP.\n" +
			"All visitors share one view state.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runWeb(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides web.addr)")
	return cmd
}

func runWeb(addr string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Web.Addr = addr
	}

	logger := config.SetupLogger(cfg.App.LogLevel, nil)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := web.NewServer(cfg.Web.Addr, newCatalog(cfg, logger), logger)

	logger.Info("web dashboard starting", "addr", cfg.Web.Addr)
	return srv.Start(ctx)
}
