package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type validateCase struct {
	name    string
	modify  func(*Config)
	wantErr string
}

// validConfig returns a minimal Config that passes Validate().
func validConfig() Config {
	return Config{
		TMDb: TMDbConfig{APIKey: "tmdb-key"},
		App:  AppConfig{LogLevel: "info", DataDir: "/tmp/test"},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []validateCase{
		{"valid_minimal", nil, ""},
		{"missing_tmdb_key", func(c *Config) { c.TMDb.APIKey = "" }, "tmdb.api_key is required"},
		{"blank_tmdb_key", func(c *Config) { c.TMDb.APIKey = "   " }, "tmdb.api_key is required"},
		{"base_url_valid", func(c *Config) { c.TMDb.BaseURL = "http://localhost:9999/3" }, ""},
		{"base_url_bad_scheme", func(c *Config) { c.TMDb.BaseURL = "ftp://tmdb" }, "must use http or https"},
		{"base_url_no_host", func(c *Config) { c.TMDb.BaseURL = "https://" }, "missing host"},
		{"negative_timeout", func(c *Config) { c.HTTP.Timeout = -time.Second }, "http.timeout must be positive"},
		{"negative_attempts", func(c *Config) { c.HTTP.MaxAttempts = -1 }, "http.max_attempts must be positive"},
		{"telegram_missing_token", func(c *Config) { c.Telegram = &TelegramConfig{} }, "telegram.bot_token is required"},
		{"telegram_valid", func(c *Config) { c.Telegram = &TelegramConfig{BotToken: "t"} }, ""},
		{"invalid_log_level", func(c *Config) { c.App.LogLevel = "trace" }, "app.log_level must be one of"},
		{"warning_accepted", func(c *Config) { c.App.LogLevel = "warning" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			if tt.modify != nil {
				tt.modify(&cfg)
			}
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	cfg.setDefaults()

	if cfg.HTTP.Timeout != defaultTimeout {
		t.Errorf("expected default timeout %v, got %v", defaultTimeout, cfg.HTTP.Timeout)
	}
	if cfg.HTTP.MaxAttempts != 1 {
		t.Errorf("expected a single attempt by default, got %d", cfg.HTTP.MaxAttempts)
	}
	if cfg.Web.Addr != defaultWebAddr {
		t.Errorf("expected default web addr, got %q", cfg.Web.Addr)
	}
	if cfg.App.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %q", cfg.App.LogLevel)
	}
	if !strings.HasSuffix(cfg.App.DataDir, "moviedeck") {
		t.Errorf("expected DataDir ending in moviedeck, got %q", cfg.App.DataDir)
	}
}

func TestSetDefaults_Preserved(t *testing.T) {
	t.Parallel()

	cfg := Config{
		HTTP: HTTPConfig{Timeout: 3 * time.Second, MaxAttempts: 2},
		Web:  WebConfig{Addr: ":9000"},
		App:  AppConfig{LogLevel: "debug", DataDir: "/data"},
	}
	cfg.setDefaults()

	if cfg.HTTP.Timeout != 3*time.Second || cfg.HTTP.MaxAttempts != 2 {
		t.Errorf("http settings overwritten: %+v", cfg.HTTP)
	}
	if cfg.Web.Addr != ":9000" || cfg.App.LogLevel != "debug" || cfg.App.DataDir != "/data" {
		t.Errorf("settings overwritten: %+v %+v", cfg.Web, cfg.App)
	}
}

func TestSetDefaults_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg := Config{App: AppConfig{DataDir: "~/.moviedeck"}}
	cfg.setDefaults()

	if want := filepath.Join(home, ".moviedeck"); cfg.App.DataDir != want {
		t.Errorf("DataDir = %q, want %q", cfg.App.DataDir, want)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "moviedeck.yaml")
	content := `
tmdb:
  api_key: file-key
  language: en-US
http:
  timeout: 5s
  max_attempts: 2
web:
  addr: ":8181"
app:
  log_level: debug
  data_dir: ` + dir + `
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TMDb.APIKey != "file-key" || cfg.TMDb.Language != "en-US" {
		t.Errorf("unexpected tmdb config: %+v", cfg.TMDb)
	}
	if cfg.HTTP.Timeout != 5*time.Second || cfg.HTTP.MaxAttempts != 2 {
		t.Errorf("unexpected http config: %+v", cfg.HTTP)
	}
	if cfg.Web.Addr != ":8181" {
		t.Errorf("unexpected web addr %q", cfg.Web.Addr)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "moviedeck.yaml")
	if err := os.WriteFile(path, []byte("tmdb:\n  api_key: file-key\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MOVIEDECK_TMDB_API_KEY", "env-key")
	t.Setenv("MOVIEDECK_HTTP_TIMEOUT", "2s")
	t.Setenv("MOVIEDECK_TELEGRAM_BOT_TOKEN", "bot-token")
	t.Setenv("MOVIEDECK_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TMDb.APIKey != "env-key" {
		t.Errorf("expected env override, got %q", cfg.TMDb.APIKey)
	}
	if cfg.HTTP.Timeout != 2*time.Second {
		t.Errorf("expected 2s timeout, got %v", cfg.HTTP.Timeout)
	}
	if cfg.Telegram == nil || cfg.Telegram.BotToken != "bot-token" {
		t.Errorf("expected telegram section from env, got %+v", cfg.Telegram)
	}
	if cfg.App.LogLevel != "warn" {
		t.Errorf("expected warn log level, got %q", cfg.App.LogLevel)
	}
}

func TestLoad_BadEnvDuration(t *testing.T) {
	t.Setenv("MOVIEDECK_TMDB_API_KEY", "k")
	t.Setenv("MOVIEDECK_HTTP_TIMEOUT", "soon")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for unparsable duration")
	}
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("MOVIEDECK_TMDB_API_KEY", "env-only")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TMDb.APIKey != "env-only" {
		t.Errorf("unexpected api key %q", cfg.TMDb.APIKey)
	}
}

func TestLoad_MissingKey(t *testing.T) {
	t.Setenv("MOVIEDECK_TMDB_API_KEY", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "tmdb.api_key is required") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("tmdb: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("MOVIEDECK_TEST_DOTENV=from-file\nMOVIEDECK_TEST_PRESET=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MOVIEDECK_TEST_DOTENV", "")
	os.Unsetenv("MOVIEDECK_TEST_DOTENV")
	t.Setenv("MOVIEDECK_TEST_PRESET", "from-env")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("MOVIEDECK_TEST_DOTENV"); got != "from-file" {
		t.Errorf("expected value from .env, got %q", got)
	}
	if got := os.Getenv("MOVIEDECK_TEST_PRESET"); got != "from-env" {
		t.Errorf("existing env var should win, got %q", got)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("missing .env should be ignored, got %v", err)
	}
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger("warn", &buf)

	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("expected JSON warn record, got %q", out)
	}
}

func TestOpenLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	f, err := OpenLogFile(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	if filepath.Base(f.Name()) != LogFileName {
		t.Errorf("unexpected log file %q", f.Name())
	}
}
