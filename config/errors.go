package config

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors wrapped by ConfigError so callers can match with errors.Is.
var (
	// ErrMissingAPIKey indicates no API key was supplied by any source.
	ErrMissingAPIKey = errors.New("api key is required")
	// ErrInvalidValue indicates a supplied value failed validation.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// ConfigError represents a configuration error with actionable guidance.
// All error messages are lowercase following Go conventions.
//
//nolint:revive // ConfigError is intentionally named for clarity in external API usage
type ConfigError struct {
	Category string   // error category: "missing" or "invalid"
	Field    string   // config field path (e.g., "api_key", "retry.interval")
	Message  string   // user-friendly error message (lowercase)
	Action   string   // actionable instruction (lowercase)
	Details  []string // additional details or examples
	Err      error    // sentinel cause
}

// Error implements the error interface with lowercase formatting.
func (e *ConfigError) Error() string {
	var parts []string

	if e.Category != "" {
		parts = append(parts, fmt.Sprintf("config_%s:", e.Category))
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Action != "" {
		parts = append(parts, e.Action)
	}
	if len(e.Details) > 0 {
		parts = append(parts, strings.Join(e.Details, "; "))
	}

	return strings.Join(parts, " ")
}

// Unwrap returns the sentinel cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewMissingAPIKeyError reports that no API key could be resolved.
func NewMissingAPIKeyError() *ConfigError {
	return &ConfigError{
		Category: "missing",
		Field:    "api_key",
		Message:  "required",
		Action:   fmt.Sprintf("set %s env var or pass liteapi.WithAPIKey", EnvAPIKey),
		Err:      ErrMissingAPIKey,
	}
}

// NewInvalidFieldError creates an error for an invalid configuration value.
func NewInvalidFieldError(field, message string, validOptions []string) *ConfigError {
	err := &ConfigError{
		Category: "invalid",
		Field:    field,
		Message:  message,
		Err:      ErrInvalidValue,
	}

	if len(validOptions) > 0 {
		err.Action = fmt.Sprintf("must be one of: %s", strings.Join(validOptions, ", "))
	}

	return err
}

// IsMissingAPIKey reports whether err was caused by an absent API key.
func IsMissingAPIKey(err error) bool {
	return errors.Is(err, ErrMissingAPIKey)
}
