// config_validation.go - Startup configuration validation for Upload Relay.
//
// Validates environment variables at startup to fail fast with clear
// error messages rather than runtime failures.
package server

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// ConfigValidationError represents a configuration validation error.
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e ConfigValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// ConfigValidator validates application configuration.
type ConfigValidator struct {
	errors []ConfigValidationError
}

// NewConfigValidator creates a new configuration validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		errors: make([]ConfigValidationError, 0),
	}
}

// AddError adds a validation error.
func (v *ConfigValidator) AddError(field, message string) {
	v.errors = append(v.errors, ConfigValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *ConfigValidator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *ConfigValidator) Errors() []ConfigValidationError {
	return v.errors
}

// ErrorString returns a formatted string of all errors.
func (v *ConfigValidator) ErrorString() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Configuration validation failed with %d error(s):\n", len(v.errors)))
	for i, err := range v.errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidateStartupConfig checks every RELAY_* variable the binary reads.
func ValidateStartupConfig() *ConfigValidator {
	v := NewConfigValidator()

	if addr := os.Getenv("RELAY_ADDR"); addr != "" {
		if !strings.Contains(addr, ":") {
			v.AddError("RELAY_ADDR", "must be host:port or :port")
		}
	}

	if raw := os.Getenv("RELAY_MAX_UPLOAD_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			v.AddError("RELAY_MAX_UPLOAD_BYTES", "must be an integer")
		} else if n <= 0 {
			v.AddError("RELAY_MAX_UPLOAD_BYTES", "must be positive")
		}
	}

	if base := os.Getenv("RELAY_BASE_URL"); base != "" {
		u, err := url.Parse(base)
		if err != nil || u.Scheme == "" || u.Host == "" {
			v.AddError("RELAY_BASE_URL", "must be an absolute URL")
		}
	}

	if level := os.Getenv("RELAY_LOG_LEVEL"); level != "" {
		switch level {
		case "debug", "info", "warn", "error":
		default:
			v.AddError("RELAY_LOG_LEVEL", "must be one of debug, info, warn, error")
		}
	}

	if format := os.Getenv("RELAY_LOG_FORMAT"); format != "" && format != "json" && format != "text" {
		v.AddError("RELAY_LOG_FORMAT", "must be json or text")
	}

	// S3 settings are all-or-nothing.
	if os.Getenv("RELAY_S3_ENDPOINT") != "" {
		if _, _, err := normaliseEndpoint(os.Getenv("RELAY_S3_ENDPOINT")); err != nil {
			v.AddError("RELAY_S3_ENDPOINT", err.Error())
		}
		for _, field := range []string{"RELAY_S3_ACCESS_KEY", "RELAY_S3_SECRET_KEY", "RELAY_S3_BUCKET"} {
			if os.Getenv(field) == "" {
				v.AddError(field, "required when RELAY_S3_ENDPOINT is set")
			}
		}
	}

	return v
}
