package transport

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/gaborage/go-liteapi/logger"
)

type telemetryFixture struct {
	spans  *tracetest.InMemoryExporter
	reader *sdkmetric.ManualReader
	tp     *sdktrace.TracerProvider
	mp     *sdkmetric.MeterProvider
}

func setupTelemetry(t *testing.T) *telemetryFixture {
	t.Helper()

	originalPropagator := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
		otel.SetTextMapPropagator(originalPropagator)
	})

	return &telemetryFixture{spans: exporter, reader: reader, tp: tp, mp: mp}
}

func (f *telemetryFixture) transport(baseURL string) (*Transport, *sleepRecorder) {
	return newTestTransport(baseURL, func(b *Builder) {
		b.WithTracerProvider(f.tp).WithMeterProvider(f.mp)
	})
}

func (f *telemetryFixture) metrics(t *testing.T) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))

	found := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != instrumentationName {
			continue
		}
		for _, m := range sm.Metrics {
			found[m.Name] = m
		}
	}
	return found
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestSpanForSuccessfulCall(t *testing.T) {
	fixture := setupTelemetry(t)
	var traceparent atomic.Value
	server := newIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent.Store(r.Header.Get("traceparent"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	tr, _ := fixture.transport(server.URL)

	_, err := tr.Get(context.Background(), "data/countries", nil)
	require.NoError(t, err)

	spans := fixture.spans.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "liteapi GET", span.Name)

	method, ok := attrValue(span.Attributes, "http.request.method")
	require.True(t, ok)
	assert.Equal(t, "GET", method.AsString())

	dest, ok := attrValue(span.Attributes, attrDestination)
	require.True(t, ok)
	assert.Equal(t, "data", dest.AsString())

	status, ok := attrValue(span.Attributes, "http.response.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(200), status.AsInt64())

	_, ok = attrValue(span.Attributes, "http.request.resend_count")
	assert.False(t, ok, "no resends recorded for a first-attempt success")
	assert.NotEqual(t, codes.Error, span.Status.Code)

	header, _ := traceparent.Load().(string)
	assert.Contains(t, header, span.SpanContext.TraceID().String(), "trace context is propagated upstream")
}

func TestSpanAndMetricsForRetriedFailure(t *testing.T) {
	fixture := setupTelemetry(t)
	server := newIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	tr, _ := fixture.transport(server.URL)

	_, err := tr.Post(context.Background(), "hotels/rates", nil)
	require.Error(t, err)

	spans := fixture.spans.GetSpans()
	require.Len(t, spans, 1, "one span per logical call")
	span := spans[0]
	assert.Equal(t, codes.Error, span.Status.Code)

	resends, ok := attrValue(span.Attributes, "http.request.resend_count")
	require.True(t, ok)
	assert.Equal(t, int64(3), resends.AsInt64())

	errType, ok := attrValue(span.Attributes, "error.type")
	require.True(t, ok)
	assert.Equal(t, "server", errType.AsString())

	metrics := fixture.metrics(t)

	duration, ok := metrics[metricRequestDuration]
	require.True(t, ok)
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "expected histogram data")
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)

	retries, ok := metrics[metricRetries]
	require.True(t, ok)
	sum, ok := retries.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected counter data")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)
}

func TestNetworkErrorTypeAttribute(t *testing.T) {
	fixture := setupTelemetry(t)
	tr, _ := fixture.transport("http://127.0.0.1:1")

	_, err := tr.Get(context.Background(), "data/countries", nil)
	require.Error(t, err)

	spans := fixture.spans.GetSpans()
	require.Len(t, spans, 1)
	errType, ok := attrValue(spans[0].Attributes, "error.type")
	require.True(t, ok)
	assert.Equal(t, string(ReasonConnectionFailed), errType.AsString())
}

func TestTelemetryDefaultsToGlobalProviders(t *testing.T) {
	tr := NewBuilder(DestinationDashboard, "http://127.0.0.1:1", testKey, logger.Nop()).Build()
	require.NotNil(t, tr.telemetry)
	assert.NotNil(t, tr.telemetry.tracer)
	assert.NotNil(t, tr.telemetry.duration)
	assert.NotNil(t, tr.telemetry.retries)
}
