package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"
)

// Config represents the main application configuration
type Config struct {
	// Metadata provider
	TMDb TMDbConfig `yaml:"tmdb"`

	// Outbound HTTP behaviour
	HTTP HTTPConfig `yaml:"http"`

	// Frontends
	Web      WebConfig       `yaml:"web"`
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`

	// Application settings
	App AppConfig `yaml:"app"`
}

// TMDbConfig holds TMDb API configuration
type TMDbConfig struct {
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Language string `yaml:"language,omitempty"` // e.g. "en-US"
}

// HTTPConfig holds outbound request settings
type HTTPConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"`
}

// WebConfig holds the web dashboard listener
type WebConfig struct {
	Addr string `yaml:"addr"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken       string  `yaml:"bot_token"`
	AllowedUserIDs []int64 `yaml:"allowed_user_ids,omitempty"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	LogLevel string `yaml:"log_level"` // "debug", "info", "warn", "error"
	DataDir  string `yaml:"data_dir"`  // Directory for the log file
}

const (
	envPrefix = "MOVIEDECK_"

	defaultTimeout = 10 * time.Second
	defaultWebAddr = "127.0.0.1:8080"
)

var validLogLevels = []string{"debug", "info", "warn", "warning", "error"}

// Load loads configuration from a YAML file with .env and environment
// variable overrides. A missing file is not an error: the configuration is
// then built from defaults and the environment alone.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv reads ./.env into the process environment. Variables that are
// already set keep their values.
func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// applyEnvOverrides overrides config values with environment variables
func (c *Config) applyEnvOverrides() error {
	// TMDb
	if v := os.Getenv(envPrefix + "TMDB_API_KEY"); v != "" {
		c.TMDb.APIKey = v
	}
	if v := os.Getenv(envPrefix + "TMDB_BASE_URL"); v != "" {
		c.TMDb.BaseURL = v
	}
	if v := os.Getenv(envPrefix + "TMDB_LANGUAGE"); v != "" {
		c.TMDb.Language = v
	}

	// HTTP
	if v := os.Getenv(envPrefix + "HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sHTTP_TIMEOUT: %w", envPrefix, err)
		}
		c.HTTP.Timeout = d
	}
	if v := os.Getenv(envPrefix + "HTTP_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sHTTP_MAX_ATTEMPTS: %w", envPrefix, err)
		}
		c.HTTP.MaxAttempts = n
	}

	// Web
	if v := os.Getenv(envPrefix + "WEB_ADDR"); v != "" {
		c.Web.Addr = v
	}

	// Telegram
	if v := os.Getenv(envPrefix + "TELEGRAM_BOT_TOKEN"); v != "" {
		if c.Telegram == nil {
			c.Telegram = &TelegramConfig{}
		}
		c.Telegram.BotToken = v
	}

	// App
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.App.LogLevel = v
	}
	if v := os.Getenv(envPrefix + "DATA_DIR"); v != "" {
		c.App.DataDir = v
	}
	return nil
}

// Validate validates the configuration and fills in defaults
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TMDb.APIKey) == "" {
		return fmt.Errorf("tmdb.api_key is required (set it in the config file, .env or %sTMDB_API_KEY)", envPrefix)
	}
	if c.TMDb.BaseURL != "" {
		if err := validateURL(c.TMDb.BaseURL, "tmdb.base_url"); err != nil {
			return err
		}
	}

	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if c.HTTP.MaxAttempts < 0 {
		return fmt.Errorf("http.max_attempts must be positive")
	}

	if c.Telegram != nil && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}

	if c.App.LogLevel != "" && !isValidLogLevel(c.App.LogLevel) {
		return fmt.Errorf("app.log_level must be one of %s", strings.Join(validLogLevels, ", "))
	}

	c.setDefaults()
	return nil
}

func (c *Config) setDefaults() {
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = defaultTimeout
	}
	if c.HTTP.MaxAttempts == 0 {
		c.HTTP.MaxAttempts = 1
	}
	if c.Web.Addr == "" {
		c.Web.Addr = defaultWebAddr
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if rest, ok := strings.CutPrefix(c.App.DataDir, "~/"); ok {
		if homeDir, err := os.UserHomeDir(); err == nil {
			c.App.DataDir = filepath.Join(homeDir, rest)
		}
	}
	if c.App.DataDir == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			c.App.DataDir = filepath.Join(homeDir, ".moviedeck")
		} else {
			c.App.DataDir = filepath.Join(os.TempDir(), "moviedeck")
		}
	}
}

func validateURL(raw, field string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%s must use http or https", field)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing host", field)
	}
	return nil
}

func isValidLogLevel(level string) bool {
	level = strings.ToLower(level)
	for _, l := range validLogLevels {
		if l == level {
			return true
		}
	}
	return false
}
