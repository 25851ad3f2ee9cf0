package main

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/charmbracelet/lipgloss"

	"github.com/vadimtrunov/moviedeck/internal/config"
	"github.com/vadimtrunov/moviedeck/internal/httpclient"
	"github.com/vadimtrunov/moviedeck/internal/metadata/tmdb"
)

// Lipgloss styles used across commands.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("5")).
			MarginBottom(1)
)

// loadConfig loads and validates the configuration file.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// newCatalog creates the TMDb client from configuration.
func newCatalog(cfg *config.Config, logger *slog.Logger) *tmdb.Client {
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.HTTP.Timeout
	httpCfg.MaxAttempts = cfg.HTTP.MaxAttempts
	httpCfg.UserAgent = "moviedeck/" + version

	client := tmdb.New(cfg.TMDb.APIKey, tmdb.Options{
		BaseURL:  cfg.TMDb.BaseURL,
		Language: cfg.TMDb.Language,
		HTTP:     httpCfg,
	}, logger)

	base := cfg.TMDb.BaseURL
	if base == "" {
		base = tmdb.DefaultBaseURL
	}
	logger.Info("TMDb client initialized",
		slog.String("url", sanitizeURL(base)),
		slog.Int("max_attempts", httpCfg.MaxAttempts),
	)
	return client
}

// sanitizeURL strips credentials, query params, and fragment from a URL for safe logging.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || u.Scheme == "" {
		return "<redacted>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
