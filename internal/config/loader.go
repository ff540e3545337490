package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultPath is used when no config path is given.
const DefaultPath = "config/config.yaml"

// EnvPrefix prefixes every environment override, e.g. SHARPBOARD_BACKEND_BASE_URL.
const EnvPrefix = "SHARPBOARD"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sharpboard")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_file.path", "")
	v.SetDefault("app.log_file.max_size_mb", 50)
	v.SetDefault("app.log_file.max_backups", 3)
	v.SetDefault("app.log_file.max_age_days", 14)

	v.SetDefault("backend.base_url", "")
	v.SetDefault("backend.health_path", "/")
	v.SetDefault("backend.board_path", "/api/board")
	v.SetDefault("backend.ticket_path", "/api/tickets")
	v.SetDefault("backend.row_format", "auto")
	v.SetDefault("backend.timeout", "10s")
	v.SetDefault("backend.max_retries", 0)
	v.SetDefault("backend.retry_wait_min", "100ms")
	v.SetDefault("backend.retry_wait_max", "2s")
	v.SetDefault("backend.rate_limit", 5.0)
	v.SetDefault("backend.health_cache_ttl", "5s")

	v.SetDefault("refresh.interval", "15s")
	v.SetDefault("refresh.run_on_start", true)

	v.SetDefault("signal.preset", "classic")

	v.SetDefault("board.sport", "ALL")
	v.SetDefault("board.sort", "signal_desc")
	v.SetDefault("board.min_edge", 0.0)
	v.SetDefault("board.min_signal", 0)

	v.SetDefault("slip.mode", "single")
	v.SetDefault("slip.stake", 25.0)
	v.SetDefault("slip.bankroll", 10000.0)

	v.SetDefault("tracker.window", 4)
	v.SetDefault("tracker.min_streak", 2)
	v.SetDefault("tracker.max_recent", 10)

	v.SetDefault("drift.enabled", false)
	v.SetDefault("drift.chance", 0.70)
	v.SetDefault("drift.max_points", 6)
	v.SetDefault("drift.limit", 500)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}
