package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/gaborage/go-liteapi"
)

// setupTelemetry builds tracer and meter providers for the enabled exporters.
// The returned shutdown flushes every exporter and must always be called.
func setupTelemetry(ctx context.Context, opts *cliOptions, stderr io.Writer) ([]liteapi.Option, func(), error) {
	var (
		traceOpts  []sdktrace.TracerProviderOption
		metricOpts []sdkmetric.Option
	)

	if opts.trace {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(stderr), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, nil, fmt.Errorf("create trace exporter: %w", err)
		}
		traceOpts = append(traceOpts, sdktrace.WithSyncer(exporter))
	}
	if opts.metrics {
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(stderr), stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, nil, fmt.Errorf("create metric exporter: %w", err)
		}
		// Shutdown collects once more, so short runs still report.
		metricOpts = append(metricOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}
	if opts.otlpEndpoint != "" {
		spans, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(opts.otlpEndpoint+"/v1/traces"))
		if err != nil {
			return nil, nil, fmt.Errorf("create otlp trace exporter: %w", err)
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(spans))

		metrics, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(opts.otlpEndpoint+"/v1/metrics"))
		if err != nil {
			return nil, nil, fmt.Errorf("create otlp metric exporter: %w", err)
		}
		metricOpts = append(metricOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metrics)))
	}

	var (
		clientOpts []liteapi.Option
		shutdowns  []func(context.Context) error
	)
	if len(traceOpts) > 0 {
		tp := sdktrace.NewTracerProvider(traceOpts...)
		clientOpts = append(clientOpts, liteapi.WithTracerProvider(tp))
		shutdowns = append(shutdowns, tp.Shutdown)
	}
	if len(metricOpts) > 0 {
		mp := sdkmetric.NewMeterProvider(metricOpts...)
		clientOpts = append(clientOpts, liteapi.WithMeterProvider(mp))
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	shutdown := func() {
		var errs []error
		for _, fn := range shutdowns {
			errs = append(errs, fn(context.Background()))
		}
		if err := errors.Join(errs...); err != nil {
			fmt.Fprintf(stderr, "telemetry shutdown: %v\n", err)
		}
	}
	return clientOpts, shutdown, nil
}
