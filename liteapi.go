package liteapi

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gaborage/go-liteapi/config"
	"github.com/gaborage/go-liteapi/logger"
	"github.com/gaborage/go-liteapi/transport"
)

// Client is safe for concurrent use.
type Client struct {
	cfg  config.Config
	opts options

	data      lazyTransport
	booking   lazyTransport
	dashboard lazyTransport
}

type lazyTransport struct {
	once sync.Once
	t    *transport.Transport
}

// New creates a Client from base with opts applied on top. The merged
// configuration is validated before returning; a missing API key yields a
// *config.ConfigError matching config.ErrMissingAPIKey.
func New(base config.Config, opts ...Option) (*Client, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Nop()
	}

	cfg := base.Merge(o.overrides)
	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}

	return &Client{cfg: cfg, opts: o}, nil
}

// NewFromEnv loads configuration from LITEAPI_* environment variables (plus
// any WithLoadOptions sources) and then behaves like New.
func NewFromEnv(opts ...Option) (*Client, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	base, err := config.Load(o.loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load liteapi config: %w", err)
	}
	return New(base, opts...)
}

// Config returns the resolved configuration. It includes the API key.
func (c *Client) Config() config.Config {
	return c.cfg
}

// Data returns the transport for the general data API.
func (c *Client) Data() *transport.Transport {
	return c.lazy(&c.data, transport.DestinationData)
}

// Booking returns the transport for the booking API.
func (c *Client) Booking() *transport.Transport {
	return c.lazy(&c.booking, transport.DestinationBooking)
}

// Dashboard returns the transport for the dashboard API.
func (c *Client) Dashboard() *transport.Transport {
	return c.lazy(&c.dashboard, transport.DestinationDashboard)
}

// Transport returns the transport for dest. Unknown destinations fall back
// to the data API.
func (c *Client) Transport(dest transport.Destination) *transport.Transport {
	switch dest {
	case transport.DestinationBooking:
		return c.Booking()
	case transport.DestinationDashboard:
		return c.Dashboard()
	default:
		return c.Data()
	}
}

func (c *Client) lazy(slot *lazyTransport, dest transport.Destination) *transport.Transport {
	slot.once.Do(func() {
		b := transport.FromConfig(dest, &c.cfg, c.opts.logger).
			WithTracerProvider(c.opts.tracerProvider).
			WithMeterProvider(c.opts.meterProvider)
		if c.opts.roundTripper != nil {
			b.WithRoundTripper(c.opts.roundTripper)
		}
		slot.t = b.Build()
	})
	return slot.t
}

func (c *Client) Get(ctx context.Context, path string, query transport.Query) (json.RawMessage, error) {
	return c.Data().Get(ctx, path, query)
}

func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Data().Post(ctx, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Data().Put(ctx, path, body)
}

func (c *Client) BookGet(ctx context.Context, path string, query transport.Query) (json.RawMessage, error) {
	return c.Booking().Get(ctx, path, query)
}

func (c *Client) BookPost(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Booking().Post(ctx, path, body)
}

func (c *Client) BookPut(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Booking().Put(ctx, path, body)
}

func (c *Client) DashboardGet(ctx context.Context, path string, query transport.Query) (json.RawMessage, error) {
	return c.Dashboard().Get(ctx, path, query)
}

func (c *Client) DashboardPost(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Dashboard().Post(ctx, path, body)
}

// StaticData exposes reference data endpoints on the data API.
func (c *Client) StaticData() *StaticData {
	return NewStaticData(c.Data())
}

// Rates exposes rate search on the data API.
func (c *Client) Rates() *Rates {
	return NewRates(c.Data())
}

// Bookings exposes the booking lifecycle on the booking API.
func (c *Client) Bookings() *Bookings {
	return NewBookings(c.Booking())
}

// Guests exposes guest and loyalty endpoints on the data API.
func (c *Client) Guests() *Guests {
	return NewGuests(c.Data())
}

// Vouchers exposes voucher management on the data API.
func (c *Client) Vouchers() *Vouchers {
	return NewVouchers(c.Data())
}

// Analytics exposes reporting on the dashboard API.
func (c *Client) Analytics() *Analytics {
	return NewAnalytics(c.Dashboard())
}
