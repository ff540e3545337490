// Package config provides configuration management for the sharpboard application.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/sharpboard/internal/drift"
	"github.com/yourusername/sharpboard/internal/filter"
	"github.com/yourusername/sharpboard/internal/logger"
	"github.com/yourusername/sharpboard/internal/risk"
	"github.com/yourusername/sharpboard/internal/signal"
	"github.com/yourusername/sharpboard/internal/tracker"
)

// Config represents the complete application configuration
type Config struct {
	App     AppConfig      `mapstructure:"app" validate:"required"`
	Backend BackendConfig  `mapstructure:"backend" validate:"required"`
	Refresh RefreshConfig  `mapstructure:"refresh"`
	Signal  SignalConfig   `mapstructure:"signal"`
	Board   BoardConfig    `mapstructure:"board"`
	Slip    SlipConfig     `mapstructure:"slip"`
	Tracker tracker.Config `mapstructure:"tracker"`
	Drift   drift.Config   `mapstructure:"drift"`
	Metrics MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string            `mapstructure:"name" validate:"required"`
	Environment string            `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string            `mapstructure:"log_level" validate:"required,loglevel"`
	LogFile     logger.FileConfig `mapstructure:"log_file"`
}

// BackendConfig represents the board backend connection
type BackendConfig struct {
	BaseURL        string        `mapstructure:"base_url" validate:"required,url"`
	HealthPath     string        `mapstructure:"health_path"`
	BoardPath      string        `mapstructure:"board_path" validate:"required"`
	TicketPath     string        `mapstructure:"ticket_path" validate:"required"`
	RowFormat      string        `mapstructure:"row_format" validate:"rowformat"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRetries     int           `mapstructure:"max_retries" validate:"gte=0,lte=5"`
	RetryWaitMin   time.Duration `mapstructure:"retry_wait_min" validate:"gte=0"`
	RetryWaitMax   time.Duration `mapstructure:"retry_wait_max" validate:"gte=0"`
	RateLimit      float64       `mapstructure:"rate_limit" validate:"gt=0"`
	HealthCacheTTL time.Duration `mapstructure:"health_cache_ttl" validate:"gte=0"`
}

// RefreshConfig represents the board polling schedule
type RefreshConfig struct {
	Interval   time.Duration `mapstructure:"interval" validate:"gte=5s"`
	RunOnStart bool          `mapstructure:"run_on_start"`
}

// SignalConfig selects the tier table used to label signal scores
type SignalConfig struct {
	Preset string        `mapstructure:"preset" validate:"tierpreset"`
	Tiers  []signal.Tier `mapstructure:"tiers"`
}

// BoardConfig is the initial board filter
type BoardConfig struct {
	Sport     string  `mapstructure:"sport"`
	Query     string  `mapstructure:"query"`
	MinEdge   float64 `mapstructure:"min_edge"`
	MinSignal int     `mapstructure:"min_signal" validate:"gte=0,lte=100"`
	SteamOnly bool    `mapstructure:"steam_only"`
	Sort      string  `mapstructure:"sort" validate:"sortmode"`
}

// SlipConfig represents the starting slip settings
type SlipConfig struct {
	Mode     string  `mapstructure:"mode" validate:"slipmode"`
	Stake    float64 `mapstructure:"stake" validate:"gte=1"`
	Bankroll float64 `mapstructure:"bankroll" validate:"gte=0"`
}

// MetricsConfig represents metrics and health server configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`

	// AllowedOrigins enables CORS on the health server
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// URL joins the backend base URL and a path.
func (b BackendConfig) URL(path string) string {
	return strings.TrimRight(b.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// TierTable returns the configured tier table. Custom tiers take precedence
// over the preset.
func (s SignalConfig) TierTable() (signal.TierTable, error) {
	if len(s.Tiers) > 0 {
		table := signal.TierTable(append([]signal.Tier(nil), s.Tiers...))
		if err := table.Validate(); err != nil {
			return nil, err
		}
		return table, nil
	}
	return signal.Preset(s.Preset)
}

// Criteria converts the board settings into filter criteria.
func (b BoardConfig) Criteria() filter.Criteria {
	c := filter.DefaultCriteria()
	if b.Sport != "" {
		c.Sport = b.Sport
	}
	c.Query = b.Query
	c.MinEdge = b.MinEdge
	c.MinSignal = b.MinSignal
	c.SteamOnly = b.SteamOnly
	if mode, err := filter.ParseSortMode(b.Sort); err == nil {
		c.Sort = mode
	}
	return c
}

// SlipMode returns the configured slip mode, defaulting to singles.
func (s SlipConfig) SlipMode() risk.Mode {
	mode, err := risk.ParseMode(s.Mode)
	if err != nil {
		return risk.ModeSingle
	}
	return mode
}

// RefreshTimeout is the deadline for one refresh cycle: one second less
// than the interval, so a slow cycle ends before the next tick.
func (r RefreshConfig) RefreshTimeout() time.Duration {
	if r.Interval <= time.Second {
		return r.Interval
	}
	return r.Interval - time.Second
}

// String summarizes the effective backend endpoints for logs.
func (b BackendConfig) String() string {
	return fmt.Sprintf("%s (health %q, board %q, tickets %q)", b.BaseURL, b.HealthPath, b.BoardPath, b.TicketPath)
}
