package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/moviedeck/internal/config"
	mcpserver "github.com/vadimtrunov/moviedeck/internal/mcp"
)

// newMCPServeCmd returns the hidden "mcp-serve" subcommand.
// It serves the popular-movies tools over stdin/stdout.
func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "mcp-serve",
		Short:  "Start MCP server over stdio (internal)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			// stdout carries the protocol.
			logger := config.SetupLogger(cfg.App.LogLevel, os.Stderr)

			srv := mcpserver.NewServer(mcpserver.Deps{Catalog: newCatalog(cfg, logger)}, version, logger)
			return srv.ServeStdio(cmd.Context())
		},
	}
}
