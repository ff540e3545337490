package config

import (
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/sharpboard/internal/filter"
	"github.com/yourusername/sharpboard/internal/normalizer"
	"github.com/yourusername/sharpboard/internal/risk"
	"github.com/yourusername/sharpboard/internal/signal"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("sortmode", validateSortMode)
	_ = v.RegisterValidation("slipmode", validateSlipMode)
	_ = v.RegisterValidation("rowformat", validateRowFormat)
	_ = v.RegisterValidation("tierpreset", validateTierPreset)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateSortMode accepts any board sort mode; empty means the default.
func validateSortMode(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := filter.ParseSortMode(s)
	return err == nil
}

func validateSlipMode(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := risk.ParseMode(s)
	return err == nil
}

func validateRowFormat(fl validator.FieldLevel) bool {
	_, err := normalizer.AdapterFor(fl.Field().String())
	return err == nil
}

func validateTierPreset(fl validator.FieldLevel) bool {
	_, err := signal.Preset(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if len(cfg.Signal.Tiers) > 0 {
		if err := signal.TierTable(cfg.Signal.Tiers).Validate(); err != nil {
			return fmt.Errorf("invalid signal tiers: %w", err)
		}
	}

	if cfg.Backend.RetryWaitMax > 0 && cfg.Backend.RetryWaitMin > cfg.Backend.RetryWaitMax {
		return fmt.Errorf("retry_wait_min cannot exceed retry_wait_max")
	}

	if cfg.Backend.HealthCacheTTL >= cfg.Refresh.Interval {
		return fmt.Errorf("health_cache_ttl must be shorter than the refresh interval")
	}

	if cfg.Backend.Timeout >= cfg.Refresh.Interval {
		return fmt.Errorf("backend timeout must be shorter than the refresh interval")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "sortmode":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: signal_desc, edge_desc, start_asc, sport_asc, none; got '%v'\n", field, value)
		case "slipmode":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: single, parlay; got '%v'\n", field, value)
		case "rowformat":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: auto, snake, camel, legacy; got '%v'\n", field, value)
		case "tierpreset":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: classic, elite; got '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		u, err := url.Parse(cfg.Backend.BaseURL)
		if err != nil || u.Scheme != "https" {
			return fmt.Errorf("production environment requires an https backend base_url")
		}
		if cfg.Drift.Enabled {
			return fmt.Errorf("demo drift must be disabled in production")
		}
	}

	return nil
}
