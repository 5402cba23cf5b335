package transport

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/go-liteapi/config"
	"github.com/gaborage/go-liteapi/logger"
)

// Version is sent in the User-Agent header.
const Version = "0.1.0"

// Destination names one of the LiteAPI hosts.
type Destination string

const (
	DestinationData      Destination = "data"
	DestinationBooking   Destination = "booking"
	DestinationDashboard Destination = "dashboard"
)

// BaseURL returns the configured base URL for d.
func (d Destination) BaseURL(cfg *config.Config) string {
	switch d {
	case DestinationBooking:
		return cfg.BookBaseURL
	case DestinationDashboard:
		return cfg.DashboardBaseURL
	default:
		return cfg.BaseURL
	}
}

// Caller is the request surface endpoint services depend on.
type Caller interface {
	Get(ctx context.Context, path string, query Query) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
	Put(ctx context.Context, path string, body any) (json.RawMessage, error)
}

// Transport executes requests against a single destination.
type Transport struct {
	destination     Destination
	baseURL         string
	apiKey          string
	userAgent       string
	timeout         time.Duration
	httpClient      *http.Client
	retry           RetryPolicy
	logger          logger.Logger
	logPayloads     bool
	maxPayloadBytes int
	telemetry       *telemetry
	propagator      propagation.TextMapPropagator
	callCount       int64

	// Test seams
	sleep  func(context.Context, time.Duration) error
	jitter func() float64
	now    func() time.Time
}

var _ Caller = (*Transport)(nil)

// Builder provides a fluent interface for configuring a Transport.
type Builder struct {
	t              *Transport
	openTimeout    time.Duration
	roundTripper   http.RoundTripper
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// NewBuilder starts a Transport for dest at baseURL authenticated with apiKey.
func NewBuilder(dest Destination, baseURL, apiKey string, log logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{
		t: &Transport{
			destination: dest,
			baseURL:     baseURL,
			apiKey:      apiKey,
			userAgent:   "go-liteapi/" + Version,
			timeout:     config.DefaultTimeout,
			retry:       DefaultRetryPolicy(),
			logger:      log,
			sleep:       sleepContext,
			jitter:      cryptoJitter,
			now:         time.Now,
		},
		openTimeout: config.DefaultOpenTimeout,
	}
}

// NewFromConfig builds a Transport for dest from a validated configuration.
func NewFromConfig(dest Destination, cfg *config.Config, log logger.Logger) *Transport {
	return FromConfig(dest, cfg, log).Build()
}

// FromConfig returns a Builder preloaded with cfg's values for dest.
func FromConfig(dest Destination, cfg *config.Config, log logger.Logger) *Builder {
	return NewBuilder(dest, dest.BaseURL(cfg), cfg.APIKey, log).
		WithTimeout(cfg.Timeout).
		WithOpenTimeout(cfg.OpenTimeout).
		WithRetryPolicy(RetryPolicy{
			MaxRetries:    cfg.MaxRetries,
			Interval:      cfg.Retry.Interval,
			BackoffFactor: cfg.Retry.BackoffFactor,
			Randomness:    cfg.Retry.Randomness,
			MaxInterval:   cfg.Retry.MaxInterval,
			NetworkErrors: cfg.Retry.NetworkErrors,
		}).
		WithPayloadLogging(cfg.Log.Payloads, cfg.Log.MaxPayloadBytes)
}

// WithTimeout bounds a whole attempt, connection through body read.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.t.timeout = timeout
	return b
}

// WithOpenTimeout bounds connection establishment.
func (b *Builder) WithOpenTimeout(timeout time.Duration) *Builder {
	b.openTimeout = timeout
	return b
}

// WithRetryPolicy replaces the retry policy.
func (b *Builder) WithRetryPolicy(p RetryPolicy) *Builder {
	b.t.retry = p
	return b
}

// WithMaxRetries sets the number of retries after the first attempt.
func (b *Builder) WithMaxRetries(n int) *Builder {
	b.t.retry.MaxRetries = n
	return b
}

// WithPayloadLogging logs request and response bodies up to maxBytes.
func (b *Builder) WithPayloadLogging(enabled bool, maxBytes int) *Builder {
	b.t.logPayloads = enabled
	b.t.maxPayloadBytes = maxBytes
	return b
}

// WithUserAgent overrides the User-Agent header.
func (b *Builder) WithUserAgent(ua string) *Builder {
	b.t.userAgent = ua
	return b
}

// WithRoundTripper replaces the underlying HTTP transport.
func (b *Builder) WithRoundTripper(rt http.RoundTripper) *Builder {
	b.roundTripper = rt
	return b
}

// WithTracerProvider sets the tracer provider; the otel global is used otherwise.
func (b *Builder) WithTracerProvider(tp trace.TracerProvider) *Builder {
	b.tracerProvider = tp
	return b
}

// WithMeterProvider sets the meter provider; the otel global is used otherwise.
func (b *Builder) WithMeterProvider(mp metric.MeterProvider) *Builder {
	b.meterProvider = mp
	return b
}

// Build creates the Transport.
func (b *Builder) Build() *Transport {
	t := b.t
	rt := b.roundTripper
	if rt == nil {
		rt = newRoundTripper(b.openTimeout)
	}
	t.httpClient = &http.Client{Timeout: t.timeout, Transport: rt}
	t.retry = t.retry.normalized()
	t.telemetry = newTelemetry(b.tracerProvider, b.meterProvider)
	t.propagator = otel.GetTextMapPropagator()
	return t
}

func newRoundTripper(openTimeout time.Duration) http.RoundTripper {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return http.DefaultTransport
	}
	rt := base.Clone()
	dialer := &net.Dialer{Timeout: openTimeout, KeepAlive: 30 * time.Second}
	rt.DialContext = dialer.DialContext
	if openTimeout > 0 {
		rt.TLSHandshakeTimeout = openTimeout
	}
	return rt
}

// Destination reports which host t talks to.
func (t *Transport) Destination() Destination {
	return t.destination
}

// BaseURL reports the base URL requests are resolved against.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// Get sends a GET request with query encoded in the URL.
func (t *Transport) Get(ctx context.Context, path string, query Query) (json.RawMessage, error) {
	return t.Do(ctx, http.MethodGet, path, query, nil)
}

// Post sends body as JSON. A nil body is sent as {}.
func (t *Transport) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return t.Do(ctx, http.MethodPost, path, nil, body)
}

// Put sends body as JSON. A nil body is sent as {}.
func (t *Transport) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return t.Do(ctx, http.MethodPut, path, nil, body)
}

// Do performs one logical call, retrying per the policy, and returns the
// interpreted data payload.
func (t *Transport) Do(ctx context.Context, method, path string, query Query, body any) (data json.RawMessage, err error) {
	req, err := t.prepareRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	callCount := atomic.AddInt64(&t.callCount, 1)

	ctx, c := t.telemetry.startCall(ctx, t.destination, method, path, req.url)
	defer func() { c.end(ctx, err) }()

	for attempt := 0; ; attempt++ {
		res, netErr := t.execute(ctx, req, attempt)
		if netErr != nil {
			delay, retry := t.retry.retryNetwork(attempt, netErr, t.jitter)
			if retry {
				t.logRetry(method, req.url, req.requestID, attempt, delay, 0, netErr)
				c.retried(ctx, 0)
				if werr := t.sleep(ctx, delay); werr != nil {
					err = t.contextError(werr)
					t.logFailure(method, req.url, req.requestID, callCount, time.Since(start), err)
					return nil, err
				}
				continue
			}
			err = netErr
			t.logFailure(method, req.url, req.requestID, callCount, time.Since(start), err)
			return nil, err
		}

		c.status = res.status
		data, err = Interpret(res.status, res.body)
		if err == nil {
			t.logResponse(res, req.requestID, callCount, time.Since(start))
			return data, nil
		}

		delay, retry := t.retry.retryStatus(attempt, res.status, res.header, t.now(), t.jitter)
		if retry {
			t.logRetry(method, req.url, req.requestID, attempt, delay, res.status, nil)
			c.retried(ctx, res.status)
			if werr := t.sleep(ctx, delay); werr != nil {
				err = t.contextError(werr)
				t.logFailure(method, req.url, req.requestID, callCount, time.Since(start), err)
				return nil, err
			}
			continue
		}

		t.logResponse(res, req.requestID, callCount, time.Since(start))
		return nil, err
	}
}
