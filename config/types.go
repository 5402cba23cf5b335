package config

import "time"

// Built-in defaults used when neither a config source nor an explicit override
// supplies a value.
const (
	DefaultBaseURL          = "https://api.liteapi.travel/v3.0"
	DefaultBookBaseURL      = "https://book.liteapi.travel/v3.0"
	DefaultDashboardBaseURL = "https://da.liteapi.travel"
	DefaultTimeout          = 30 * time.Second
	DefaultOpenTimeout      = 10 * time.Second
	DefaultMaxRetries       = 3

	DefaultRetryInterval      = 500 * time.Millisecond
	DefaultRetryBackoffFactor = 2.0
	DefaultRetryRandomness    = 0.5
	DefaultRetryMaxInterval   = 30 * time.Second

	DefaultLogLevel        = "info"
	DefaultMaxPayloadBytes = 1024

	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "LITEAPI_"
	// EnvAPIKey is the environment variable holding the API key.
	EnvAPIKey = EnvPrefix + "API_KEY"
)

// Config holds everything needed to talk to the three LiteAPI destinations.
// It is a plain value; copies are independent.
type Config struct {
	APIKey           string        `koanf:"api_key" validate:"required"`
	BaseURL          string        `koanf:"base_url" validate:"required,http_url"`
	BookBaseURL      string        `koanf:"book_base_url" validate:"required,http_url"`
	DashboardBaseURL string        `koanf:"dashboard_base_url" validate:"required,http_url"`
	Timeout          time.Duration `koanf:"timeout" validate:"gt=0"`
	OpenTimeout      time.Duration `koanf:"open_timeout" validate:"gt=0"`
	MaxRetries       int           `koanf:"max_retries" validate:"gte=0"`
	Retry            RetryConfig   `koanf:"retry"`
	Log              LogConfig     `koanf:"log"`
}

// RetryConfig tunes the backoff applied between retried attempts.
//
// The delay before retry n (starting at 0) is Interval * BackoffFactor^n, capped
// at MaxInterval and then moved by up to ±Randomness of itself.
type RetryConfig struct {
	Interval      time.Duration `koanf:"interval" validate:"gte=0"`
	BackoffFactor float64       `koanf:"backoff_factor" validate:"gte=1"`
	Randomness    float64       `koanf:"randomness" validate:"gte=0,lte=1"`
	MaxInterval   time.Duration `koanf:"max_interval" validate:"gte=0"`
	// NetworkErrors also retries timeouts and connection failures.
	NetworkErrors bool `koanf:"network_errors"`
}

// LogConfig controls request/response logging of the transport.
type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Pretty bool   `koanf:"pretty"`
	// Payloads enables debug-level logging of headers and body previews
	Payloads bool `koanf:"payloads"`
	// MaxPayloadBytes caps the number of body bytes logged when Payloads is enabled
	MaxPayloadBytes int `koanf:"max_payload_bytes" validate:"gte=0"`
}

// Default returns the built-in configuration. It has no API key and never reads
// the environment.
func Default() Config {
	return Config{
		BaseURL:          DefaultBaseURL,
		BookBaseURL:      DefaultBookBaseURL,
		DashboardBaseURL: DefaultDashboardBaseURL,
		Timeout:          DefaultTimeout,
		OpenTimeout:      DefaultOpenTimeout,
		MaxRetries:       DefaultMaxRetries,
		Retry: RetryConfig{
			Interval:      DefaultRetryInterval,
			BackoffFactor: DefaultRetryBackoffFactor,
			Randomness:    DefaultRetryRandomness,
			MaxInterval:   DefaultRetryMaxInterval,
		},
		Log: LogConfig{
			Level:           DefaultLogLevel,
			MaxPayloadBytes: DefaultMaxPayloadBytes,
		},
	}
}

// Overrides carries explicitly supplied values. A nil field means the value was
// omitted and the base configuration wins.
type Overrides struct {
	APIKey           *string
	BaseURL          *string
	BookBaseURL      *string
	DashboardBaseURL *string
	Timeout          *time.Duration
	OpenTimeout      *time.Duration
	MaxRetries       *int
}

// Merge returns a copy of c with every non-nil override applied.
func (c Config) Merge(o Overrides) Config {
	if o.APIKey != nil {
		c.APIKey = *o.APIKey
	}
	if o.BaseURL != nil {
		c.BaseURL = *o.BaseURL
	}
	if o.BookBaseURL != nil {
		c.BookBaseURL = *o.BookBaseURL
	}
	if o.DashboardBaseURL != nil {
		c.DashboardBaseURL = *o.DashboardBaseURL
	}
	if o.Timeout != nil {
		c.Timeout = *o.Timeout
	}
	if o.OpenTimeout != nil {
		c.OpenTimeout = *o.OpenTimeout
	}
	if o.MaxRetries != nil {
		c.MaxRetries = *o.MaxRetries
	}
	return c
}
