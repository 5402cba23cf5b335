package transport

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/gaborage/go-liteapi/transport"

	// Metric names
	metricRequestDuration = "liteapi.client.request.duration" // Histogram in seconds
	metricRetries         = "liteapi.client.retries"          // Counter

	// Attribute keys
	attrDestination = "liteapi.destination"
	attrPath        = "liteapi.path"
)

// Request duration histogram buckets; the upper range covers retried calls.
var requestDurationBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5, 7.5, 10, 30, 60,
}

type telemetry struct {
	tracer   trace.Tracer
	duration metric.Float64Histogram
	retries  metric.Int64Counter
}

// newTelemetry builds instruments from the given providers, falling back to
// the otel globals. Instrument failures are reported and leave the
// instrument nil.
func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) *telemetry {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	meter := mp.Meter(instrumentationName)
	t := &telemetry{tracer: tp.Tracer(instrumentationName)}

	var err error
	t.duration, err = meter.Float64Histogram(
		metricRequestDuration,
		metric.WithDescription("Duration of LiteAPI calls including retries"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(requestDurationBuckets...),
	)
	logMetricError(metricRequestDuration, err)

	t.retries, err = meter.Int64Counter(
		metricRetries,
		metric.WithDescription("Number of retried LiteAPI attempts"),
		metric.WithUnit("{retry}"),
	)
	logMetricError(metricRetries, err)

	return t
}

// logMetricError logs a metric initialization error to stderr.
func logMetricError(metricName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Failed to initialize LiteAPI metric %s: %v\n", metricName, err)
	}
}

// call tracks one logical API call across all of its attempts.
type call struct {
	t           *telemetry
	span        trace.Span
	start       time.Time
	destination Destination
	method      string
	status      int
	retries     int
}

func (t *telemetry) startCall(ctx context.Context, dest Destination, method, path, fullURL string) (context.Context, *call) {
	ctx, span := t.tracer.Start(ctx, fmt.Sprintf("liteapi %s", method),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.HTTPRequestMethodKey.String(method),
			semconv.URLFull(fullURL),
			attribute.String(attrDestination, string(dest)),
			attribute.String(attrPath, path),
		),
	)
	return ctx, &call{t: t, span: span, start: time.Now(), destination: dest, method: method}
}

func (c *call) retried(ctx context.Context, status int) {
	c.retries++
	if c.t.retries == nil {
		return
	}
	attrs := c.baseAttrs()
	if status > 0 {
		attrs = append(attrs, semconv.HTTPResponseStatusCode(status))
	}
	c.t.retries.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// end records the outcome and closes the span.
func (c *call) end(ctx context.Context, err error) {
	attrs := c.baseAttrs()
	if c.status > 0 {
		attrs = append(attrs, semconv.HTTPResponseStatusCode(c.status))
		c.span.SetAttributes(semconv.HTTPResponseStatusCode(c.status))
	}
	if c.retries > 0 {
		c.span.SetAttributes(semconv.HTTPRequestResendCount(c.retries))
	}

	if err != nil {
		errType := errorTypeOf(err)
		attrs = append(attrs, semconv.ErrorTypeKey.String(errType))
		c.span.SetAttributes(semconv.ErrorTypeKey.String(errType))
		c.span.RecordError(err)
		c.span.SetStatus(codes.Error, err.Error())
	}

	if c.t.duration != nil {
		c.t.duration.Record(ctx, time.Since(c.start).Seconds(), metric.WithAttributes(attrs...))
	}
	c.span.End()
}

func (c *call) baseAttrs() []attribute.KeyValue {
	return []attribute.KeyValue{
		semconv.HTTPRequestMethodKey.String(c.method),
		attribute.String(attrDestination, string(c.destination)),
	}
}

func errorTypeOf(err error) string {
	switch e := err.(type) {
	case *APIError:
		return string(e.Kind())
	case *NetworkError:
		return string(e.Reason)
	default:
		return "_OTHER"
	}
}
