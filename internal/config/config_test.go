package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/yourusername/sharpboard/internal/filter"
	"github.com/yourusername/sharpboard/internal/risk"
	"github.com/yourusername/sharpboard/internal/signal"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	customTiersConfigPath        = "testdata/custom_tiers_config.yaml"
	expansionConfigPath          = "testdata/expansion_config.yaml"
	expansionConfigMissingPath   = "testdata/expansion_config_missing.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	sharpboardName               = "sharpboard"
	developmentEnv               = "development"
	testAppName                  = "test-app"
	testBackendURL               = "TEST_BACKEND_URL"
	testMissingVar               = "TEST_MISSING_VAR"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != sharpboardName {
		t.Errorf("expected app name '%s', got '%s'", sharpboardName, cfg.App.Name)
	}
	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}
	if cfg.Backend.BoardPath != "/api/board" {
		t.Errorf("expected board path '/api/board', got '%s'", cfg.Backend.BoardPath)
	}
	if cfg.Refresh.Interval != 15*time.Second {
		t.Errorf("expected 15s refresh interval, got %s", cfg.Refresh.Interval)
	}
	if cfg.Backend.HealthCacheTTL != 5*time.Second {
		t.Errorf("expected 5s health cache TTL, got %s", cfg.Backend.HealthCacheTTL)
	}
	if cfg.Tracker.Window != 4 || cfg.Tracker.MinStreak != 2 || cfg.Tracker.MaxRecent != 10 {
		t.Errorf("unexpected tracker config: %+v", cfg.Tracker)
	}
	if cfg.Slip.Stake != 25 || cfg.Slip.Bankroll != 10000 {
		t.Errorf("unexpected slip config: %+v", cfg.Slip)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("SHARPBOARD_APP_NAME", testAppName)
	t.Setenv("SHARPBOARD_REFRESH_INTERVAL", "20s")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
	if cfg.Refresh.Interval != 20*time.Second {
		t.Errorf("expected refresh interval 20s from environment, got %s", cfg.Refresh.Interval)
	}
}

// TestLoadWithDefaultsMissingFile falls back to defaults
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	t.Setenv("SHARPBOARD_BACKEND_BASE_URL", "http://localhost:9999")

	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.Backend.BaseURL != "http://localhost:9999" {
		t.Errorf("expected base url from environment, got '%s'", cfg.Backend.BaseURL)
	}
	if cfg.Backend.BoardPath != "/api/board" {
		t.Errorf("expected default board path, got '%s'", cfg.Backend.BoardPath)
	}
	if cfg.Backend.MaxRetries != 0 {
		t.Errorf("expected no retries by default, got %d", cfg.Backend.MaxRetries)
	}
	if cfg.Signal.Preset != signal.PresetClassic {
		t.Errorf("expected classic tiers by default, got '%s'", cfg.Signal.Preset)
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateRejectsBadEnums checks each custom enum rule
func TestValidateRejectsBadEnums(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"environment", func(c *Config) { c.App.Environment = "invalid" }, "Environment"},
		{"log level", func(c *Config) { c.App.LogLevel = "trace" }, "LogLevel"},
		{"sort mode", func(c *Config) { c.Board.Sort = "odds_asc" }, "Sort"},
		{"slip mode", func(c *Config) { c.Slip.Mode = "teaser" }, "Mode"},
		{"row format", func(c *Config) { c.Backend.RowFormat = "xml" }, "RowFormat"},
		{"tier preset", func(c *Config) { c.Signal.Preset = "platinum" }, "Preset"},
		{"base url", func(c *Config) { c.Backend.BaseURL = "" }, "BaseURL"},
		{"refresh floor", func(c *Config) { c.Refresh.Interval = 2 * time.Second }, "Interval"},
		{"stake floor", func(c *Config) { c.Slip.Stake = 0.5 }, "Stake"},
		{"retries cap", func(c *Config) { c.Backend.MaxRetries = 9 }, "MaxRetries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(validConfigPath)
			if err != nil {
				t.Fatalf(expectedNoErrorLoadingConfig, err)
			}

			tt.mutate(cfg)
			err = Validate(cfg)
			if err == nil {
				t.Fatalf("expected validation error for %s", tt.name)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error to mention '%s', got: %v", tt.want, err)
			}
		})
	}
}

// TestValidateCrossField tests relationships between sections
func TestValidateCrossField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"health cache outlives interval", func(c *Config) { c.Backend.HealthCacheTTL = 15 * time.Second }},
		{"timeout outlives interval", func(c *Config) { c.Backend.Timeout = 20 * time.Second }},
		{"retry waits inverted", func(c *Config) { c.Backend.RetryWaitMin = 5 * time.Second }},
		{"tiers not descending", func(c *Config) {
			c.Signal.Tiers = []signal.Tier{{MinScore: 50, Label: "A"}, {MinScore: 60, Label: "B"}, {MinScore: 0, Label: "C"}}
		}},
		{"tiers without floor", func(c *Config) {
			c.Signal.Tiers = []signal.Tier{{MinScore: 50, Label: "A"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(validConfigPath)
			if err != nil {
				t.Fatalf(expectedNoErrorLoadingConfig, err)
			}

			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Fatalf("expected cross-field validation error for %s", tt.name)
			}
		})
	}
}

// TestCustomTiersConfig tests loading a custom tier table
func TestCustomTiersConfig(t *testing.T) {
	cfg, err := Load(customTiersConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}

	table, err := cfg.Signal.TierTable()
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if got := table.Label(95); got != "MAX" {
		t.Errorf("expected MAX for 95, got %s", got)
	}
	if got := table.Label(49); got != "PASS" {
		t.Errorf("expected PASS for 49, got %s", got)
	}

	criteria := cfg.Board.Criteria()
	if criteria.Sport != "NBA" || criteria.Sort != filter.SortEdgeDesc || criteria.MinSignal != 40 {
		t.Errorf("unexpected criteria: %+v", criteria)
	}
	if cfg.Slip.SlipMode() != risk.ModeParlay {
		t.Errorf("expected parlay slip mode, got %s", cfg.Slip.SlipMode())
	}
}

// TestSignalPresetTable tests preset lookup
func TestSignalPresetTable(t *testing.T) {
	table, err := SignalConfig{Preset: signal.PresetElite}.TierTable()
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if got := table.Label(81); got != "ELITE" {
		t.Errorf("expected ELITE, got %s", got)
	}
}

// TestBackendURL tests joining base URL and paths
func TestBackendURL(t *testing.T) {
	b := BackendConfig{BaseURL: "http://localhost:8787/"}

	if got := b.URL("/api/board"); got != "http://localhost:8787/api/board" {
		t.Errorf("unexpected board URL %s", got)
	}
	if got := b.URL("/"); got != "http://localhost:8787/" {
		t.Errorf("unexpected health URL %s", got)
	}
}

// TestRefreshTimeout tests the per-cycle deadline
func TestRefreshTimeout(t *testing.T) {
	if got := (RefreshConfig{Interval: 15 * time.Second}).RefreshTimeout(); got != 14*time.Second {
		t.Errorf("expected 14s, got %s", got)
	}
	if got := (RefreshConfig{Interval: 500 * time.Millisecond}).RefreshTimeout(); got != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %s", got)
	}
}

// TestIsProduction tests production environment check
func TestIsProduction(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "production"}}

	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}
	cfg.App.Environment = "staging"
	if cfg.IsProduction() {
		t.Error("expected IsProduction() to return false for staging")
	}
}

// TestValidateEnvironment tests production-only requirements
func TestValidateEnvironment(t *testing.T) {
	cfg := &Config{
		App:     AppConfig{Environment: "production"},
		Backend: BackendConfig{BaseURL: "http://board.internal"},
	}
	if err := ValidateEnvironment(cfg); err == nil {
		t.Error("expected plain http backend to be rejected in production")
	}

	cfg.Backend.BaseURL = "https://board.example.com"
	cfg.Drift.Enabled = true
	if err := ValidateEnvironment(cfg); err == nil {
		t.Error("expected drift to be rejected in production")
	}

	cfg.Drift.Enabled = false
	if err := ValidateEnvironment(cfg); err != nil {
		t.Errorf(expectedNoErrorMsg, err)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests environment variable expansion in config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv(testBackendURL, "http://expanded.example:8080")

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Backend.BaseURL != "http://expanded.example:8080" {
		t.Errorf("expected base url from environment expansion, got '%s'", cfg.Backend.BaseURL)
	}
}

// TestLoadConfigMissingEnvironmentVariable tests handling of missing environment variables
func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	os.Unsetenv(testMissingVar)

	cfg, err := Load(expansionConfigMissingPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	// os.ExpandEnv replaces an unset variable with the empty string
	if cfg.Backend.BaseURL != "" {
		t.Errorf("expected empty base url, got %q", cfg.Backend.BaseURL)
	}
	if err := Validate(cfg); err == nil {
		t.Error("expected validation to require a base url")
	}
}
