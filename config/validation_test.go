package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := Default()
	cfg.APIKey = testAPIKey
	return cfg
}

func TestValidateValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, Validate(&cfg))
}

func TestValidateMissingAPIKey(t *testing.T) {
	for _, key := range []string{"", "   "} {
		cfg := validConfig()
		cfg.APIKey = key

		err := Validate(&cfg)
		require.Error(t, err)
		assert.True(t, IsMissingAPIKey(err))

		var cfgErr *ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "missing", cfgErr.Category)
		assert.Equal(t, "api_key", cfgErr.Field)
		assert.Contains(t, err.Error(), EnvAPIKey)
	}
}

func TestValidateInvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "empty base url", mutate: func(c *Config) { c.BaseURL = "" }, field: "base_url"},
		{name: "relative booking url", mutate: func(c *Config) { c.BookBaseURL = "book.liteapi.travel" }, field: "book_base_url"},
		{name: "non http dashboard url", mutate: func(c *Config) { c.DashboardBaseURL = "ftp://da.liteapi.travel" }, field: "dashboard_base_url"},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, field: "timeout"},
		{name: "negative open timeout", mutate: func(c *Config) { c.OpenTimeout = -time.Second }, field: "open_timeout"},
		{name: "negative retries", mutate: func(c *Config) { c.MaxRetries = -1 }, field: "max_retries"},
		{name: "backoff factor below one", mutate: func(c *Config) { c.Retry.BackoffFactor = 0.5 }, field: "retry.backoff_factor"},
		{name: "randomness above one", mutate: func(c *Config) { c.Retry.Randomness = 1.5 }, field: "retry.randomness"},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "verbose" }, field: "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := Validate(&cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidValue)
			assert.False(t, IsMissingAPIKey(err))

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, "invalid", cfgErr.Category)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestValidateZeroRetriesAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.MaxRetries = 0
	cfg.Retry.Interval = 0
	assert.NoError(t, Validate(&cfg))
}

func TestConfigErrorError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigError
		expected string
	}{
		{
			name:     "missing api key",
			err:      NewMissingAPIKeyError(),
			expected: "config_missing: api_key required set LITEAPI_API_KEY env var or pass liteapi.WithAPIKey",
		},
		{
			name:     "invalid with options",
			err:      NewInvalidFieldError("log.level", "unsupported value", []string{"debug", "info"}),
			expected: "config_invalid: log.level unsupported value must be one of: debug, info",
		},
		{
			name:     "details",
			err:      &ConfigError{Category: "invalid", Field: "timeout", Details: []string{"a", "b"}},
			expected: "config_invalid: timeout a; b",
		},
		{
			name:     "empty",
			err:      &ConfigError{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}
