package liteapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/gaborage/go-liteapi/config"
	"github.com/gaborage/go-liteapi/testing/fixtures"
	"github.com/gaborage/go-liteapi/transport"
)

const testAPIKey = "test_api_key"

func newIPv4TestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test: unable to bind IPv4 listener: %v", err)
		return &httptest.Server{}
	}

	server := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	server.Start()
	t.Cleanup(server.Close)
	return server
}

// countingTransport counts requests that reach the network layer.
type countingTransport struct {
	calls int32
	next  http.RoundTripper
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.next.RoundTrip(req)
}

func TestNewRequiresAPIKey(t *testing.T) {
	rt := &countingTransport{next: http.DefaultTransport}

	for _, opts := range [][]Option{
		{WithHTTPTransport(rt)},
		{WithHTTPTransport(rt), WithAPIKey("")},
	} {
		client, err := New(config.Default(), opts...)
		require.Error(t, err)
		assert.Nil(t, client)

		var cfgErr *config.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.ErrorIs(t, err, config.ErrMissingAPIKey)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&rt.calls))
}

func TestNewRejectsInvalidOverride(t *testing.T) {
	_, err := New(config.Default(), WithAPIKey(testAPIKey), WithTimeout(0))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidValue)
}

func TestNewOverridePrecedence(t *testing.T) {
	base := config.Default()
	base.APIKey = "from-env"
	base.MaxRetries = 5

	client, err := New(base,
		WithAPIKey(testAPIKey),
		WithBookBaseURL("https://book.example.com/v3.0"),
		WithMaxRetries(0),
		WithOpenTimeout(2*time.Second),
	)
	require.NoError(t, err)

	cfg := client.Config()
	assert.Equal(t, testAPIKey, cfg.APIKey)
	assert.Equal(t, "https://book.example.com/v3.0", cfg.BookBaseURL)
	assert.Equal(t, config.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.OpenTimeout)
	assert.Equal(t, config.DefaultTimeout, cfg.Timeout)
}

func TestNewFromEnv(t *testing.T) {
	environ := func() []string {
		return []string{"LITEAPI_API_KEY=env-key", "LITEAPI_MAX_RETRIES=1"}
	}

	client, err := NewFromEnv(WithLoadOptions(config.WithEnviron(environ)))
	require.NoError(t, err)
	assert.Equal(t, "env-key", client.Config().APIKey)
	assert.Equal(t, 1, client.Config().MaxRetries)

	client, err = NewFromEnv(WithLoadOptions(config.WithEnviron(environ)), WithAPIKey("explicit"))
	require.NoError(t, err)
	assert.Equal(t, "explicit", client.Config().APIKey)

	_, err = NewFromEnv(WithLoadOptions(config.WithEnviron(func() []string { return nil })))
	assert.True(t, config.IsMissingAPIKey(err))
}

func TestTransportsAreLazyAndMemoized(t *testing.T) {
	client, err := New(config.Default(), WithAPIKey(testAPIKey))
	require.NoError(t, err)

	assert.Nil(t, client.data.t)
	assert.Nil(t, client.booking.t)
	assert.Nil(t, client.dashboard.t)

	data := client.Data()
	assert.Same(t, data, client.Data())
	assert.Same(t, data, client.Transport(transport.DestinationData))
	assert.Same(t, client.Booking(), client.Transport(transport.DestinationBooking))
	assert.Same(t, client.Dashboard(), client.Transport(transport.DestinationDashboard))
	assert.NotNil(t, client.booking.t, "booking transport was created on demand")

	assert.Equal(t, config.DefaultBaseURL, client.Data().BaseURL())
	assert.Equal(t, config.DefaultBookBaseURL, client.Booking().BaseURL())
	assert.Equal(t, config.DefaultDashboardBaseURL, client.Dashboard().BaseURL())
}

func TestConcurrentFirstUse(t *testing.T) {
	client, err := New(config.Default(), WithAPIKey(testAPIKey))
	require.NoError(t, err)

	const workers = 32
	data := make([]*transport.Transport, workers)
	booking := make([]*transport.Transport, workers)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			data[i] = client.Data()
			booking[i] = client.Booking()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i := 1; i < workers; i++ {
		assert.Same(t, data[0], data[i])
		assert.Same(t, booking[0], booking[i])
	}
	assert.NotSame(t, data[0], booking[0])
	assert.Equal(t, config.DefaultBaseURL, data[0].BaseURL())
	assert.Equal(t, config.DefaultBookBaseURL, booking[0].BaseURL())
}

func TestClientRoutesDestinations(t *testing.T) {
	var dataHits, bookHits, dashHits int32
	dataServer := newIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&dataHits, 1)
		assert.Equal(t, testAPIKey, r.Header.Get("X-API-Key"))
		_, _ = w.Write([]byte(`{"status":"success","data":[{"code":"SG","name":"Singapore"}]}`))
	}))
	bookServer := newIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&bookHits, 1)
		assert.Equal(t, "/v3.0/bookings/bk1", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"bookingId":"bk1","status":"CONFIRMED"}}`))
	}))
	dashServer := newIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&dashHits, 1)
		assert.Equal(t, "/analytics/weekly", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"bookings":3}}`))
	}))

	client, err := New(config.Default(),
		WithAPIKey(testAPIKey),
		WithBaseURL(dataServer.URL+"/v3.0"),
		WithBookBaseURL(bookServer.URL+"/v3.0"),
		WithDashboardBaseURL(dashServer.URL),
	)
	require.NoError(t, err)
	ctx := context.Background()

	type country struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	countries, err := DecodeResult[[]country](client.StaticData().Countries(ctx))
	require.NoError(t, err)
	assert.Equal(t, []country{{Code: "SG", Name: "Singapore"}}, countries)

	booking, err := client.Bookings().Get(ctx, "bk1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"bookingId":"bk1","status":"CONFIRMED"}`, string(booking))

	weekly, err := client.Analytics().Weekly(ctx, AnalyticsRange{From: "2025-01-01", To: "2025-01-07"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"bookings":3}`, string(weekly))

	assert.Equal(t, int32(1), atomic.LoadInt32(&dataHits))
	assert.Equal(t, int32(1), atomic.LoadInt32(&bookHits))
	assert.Equal(t, int32(1), atomic.LoadInt32(&dashHits))
}

func TestClientPrimitivesSurfaceTypedErrors(t *testing.T) {
	server := newIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"failed","error":{"code":404,"message":"Hotel not found"}}`))
	}))

	client, err := New(config.Default(), WithAPIKey(testAPIKey), WithBaseURL(server.URL), WithBookBaseURL(server.URL), WithDashboardBaseURL(server.URL))
	require.NoError(t, err)
	ctx := context.Background()

	calls := map[string]func() error{
		"get":            func() error { _, err := client.Get(ctx, "data/hotel", transport.Query{"hotelId": "x"}); return err },
		"post":           func() error { _, err := client.Post(ctx, "hotels/rates", nil); return err },
		"put":            func() error { _, err := client.Put(ctx, "guests/loyalty", nil); return err },
		"book get":       func() error { _, err := client.BookGet(ctx, "bookings", nil); return err },
		"book post":      func() error { _, err := client.BookPost(ctx, "rates/book", nil); return err },
		"book put":       func() error { _, err := client.BookPut(ctx, "bookings/x", nil); return err },
		"dashboard get":  func() error { _, err := client.DashboardGet(ctx, "analytics", nil); return err },
		"dashboard post": func() error { _, err := client.DashboardPost(ctx, "analytics/report", nil); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.Error(t, err)

			var apiErr *transport.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, 404, apiErr.Status)
			assert.Equal(t, "404", apiErr.Code)
			assert.Equal(t, "Hotel not found", apiErr.Message)
			assert.ErrorIs(t, err, transport.ErrNotFound)
			assert.ErrorIs(t, err, transport.ErrClient)
		})
	}
}

func TestWithHTTPTransportIsUsed(t *testing.T) {
	server := newIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	rt := &countingTransport{next: http.DefaultTransport}

	client, err := New(config.Default(), WithAPIKey(testAPIKey), WithBaseURL(server.URL), WithHTTPTransport(rt))
	require.NoError(t, err)

	_, err = client.StaticData().Currencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&rt.calls))
}

func TestClientRetriesThroughRouter(t *testing.T) {
	router := fixtures.NewRouter().
		Handle(http.MethodGet, "/data/currencies",
			fixtures.RateLimited(0),
			fixtures.Raw(http.StatusBadGateway, "<html>bad gateway</html>"),
			fixtures.Success([]map[string]string{{"code": "EUR"}}),
		).
		Handle(http.MethodPost, "/rates/book",
			fixtures.Failure(http.StatusUnprocessableEntity, "INVALID_PREBOOK", "prebook expired"),
		)
	server := newIPv4TestServer(t, router)

	base := config.Default()
	base.Retry.Interval = time.Millisecond
	base.Retry.MaxInterval = 10 * time.Millisecond
	client, err := New(base, WithAPIKey(testAPIKey), WithBaseURL(server.URL), WithBookBaseURL(server.URL))
	require.NoError(t, err)
	ctx := context.Background()

	currencies, err := client.StaticData().Currencies(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"code":"EUR"}]`, string(currencies))
	assert.Equal(t, 3, router.Count(http.MethodGet, "/data/currencies"))

	_, err = client.Bookings().Book(ctx, BookRequest{PrebookID: "pb-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, transport.ErrValidation)
	assert.Equal(t, 1, router.Count(http.MethodPost, "/rates/book"), "4xx responses are not retried")

	for _, req := range router.Requests() {
		assert.Equal(t, testAPIKey, req.Header.Get("X-API-Key"))
		assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
	}
}
