package liteapi

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/go-liteapi/config"
	"github.com/gaborage/go-liteapi/logger"
)

// Option customizes a Client. Options win over the base configuration.
type Option func(*options)

type options struct {
	overrides      config.Overrides
	logger         logger.Logger
	roundTripper   http.RoundTripper
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	loadOpts       []config.LoadOption
}

func WithAPIKey(key string) Option {
	return func(o *options) { o.overrides.APIKey = &key }
}

func WithBaseURL(url string) Option {
	return func(o *options) { o.overrides.BaseURL = &url }
}

func WithBookBaseURL(url string) Option {
	return func(o *options) { o.overrides.BookBaseURL = &url }
}

func WithDashboardBaseURL(url string) Option {
	return func(o *options) { o.overrides.DashboardBaseURL = &url }
}

// WithTimeout bounds each attempt end to end.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.overrides.Timeout = &d }
}

// WithOpenTimeout bounds connection establishment.
func WithOpenTimeout(d time.Duration) Option {
	return func(o *options) { o.overrides.OpenTimeout = &d }
}

// WithMaxRetries sets the retry budget. Zero disables retries.
func WithMaxRetries(n int) Option {
	return func(o *options) { o.overrides.MaxRetries = &n }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHTTPTransport replaces the round tripper used by every destination.
func WithHTTPTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.roundTripper = rt }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// WithLoadOptions passes sources to config.Load when used with NewFromEnv.
func WithLoadOptions(opts ...config.LoadOption) Option {
	return func(o *options) { o.loadOpts = append(o.loadOpts, opts...) }
}
