package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	ProtocolGrpc = "grpc"
	ProtocolHttp = "http"
)

// Exporter is the connection to an otlp collector, an empty Endpoint
// disables the exporter.
type Exporter struct {
	// Endpoint is a url, ex. "http://localhost:4318".
	Endpoint string `json:"endpoint"`
	// Protocol is either "grpc" or "http" (the default).
	Protocol string            `json:"protocol"`
	Headers  map[string]string `json:"headers"`
}

func (e Exporter) grpc() (bool, error) {
	switch e.Protocol {
	case "", ProtocolHttp:
		return false, nil
	case ProtocolGrpc:
		return true, nil
	}
	return false, fmt.Errorf("unknown otlp protocol %q", e.Protocol)
}

type Config struct {
	Traces  Exporter `json:"traces"`
	Metrics Exporter `json:"metrics"`
	// MetricIntervalSeconds is how often metrics are pushed, it defaults to 10.
	MetricIntervalSeconds int `json:"metric_interval_seconds"`
}

// Telemetry holds the providers installed by Setup, a provider is nil
// when its exporter is disabled.
type Telemetry struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

// Shutdown flushes and stops every installed provider.
func (t Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.TracerProvider != nil {
		errs = append(errs, t.TracerProvider.Shutdown(ctx))
	}
	if t.MeterProvider != nil {
		errs = append(errs, t.MeterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// Setup installs the global otel providers of every enabled exporter, the
// disabled ones keep the default no-op provider.
func Setup(ctx context.Context, serviceName string, config Config) (Telemetry, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return Telemetry{}, err
	}

	var out Telemetry

	if config.Traces.Endpoint != "" {
		exporter, err := newSpanExporter(ctx, config.Traces)
		if err != nil {
			return Telemetry{}, fmt.Errorf("trace exporter: %w", err)
		}
		out.TracerProvider = trace.NewTracerProvider(
			trace.WithBatcher(exporter),
			trace.WithResource(res),
		)
		otel.SetTracerProvider(out.TracerProvider)
	}

	if config.Metrics.Endpoint != "" {
		exporter, err := newMetricExporter(ctx, config.Metrics)
		if err != nil {
			out.Shutdown(ctx)
			return Telemetry{}, fmt.Errorf("metric exporter: %w", err)
		}
		interval := time.Duration(config.MetricIntervalSeconds) * time.Second
		if interval <= 0 {
			interval = 10 * time.Second
		}
		out.MeterProvider = metric.NewMeterProvider(
			metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(interval))),
			metric.WithResource(res),
		)
		otel.SetMeterProvider(out.MeterProvider)
	}

	return out, nil
}

func newSpanExporter(ctx context.Context, e Exporter) (trace.SpanExporter, error) {
	useGrpc, err := e.grpc()
	if err != nil {
		return nil, err
	}
	slog.Info("exporting traces", "endpoint", e.Endpoint, "grpc", useGrpc)

	if useGrpc {
		return otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(e.Endpoint),
			otlptracegrpc.WithHeaders(e.Headers),
		)
	}
	return otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpointURL(e.Endpoint),
		otlptracehttp.WithHeaders(e.Headers),
	)
}

func newMetricExporter(ctx context.Context, e Exporter) (metric.Exporter, error) {
	useGrpc, err := e.grpc()
	if err != nil {
		return nil, err
	}
	slog.Info("exporting metrics", "endpoint", e.Endpoint, "grpc", useGrpc)

	if useGrpc {
		return otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(e.Endpoint),
			otlpmetricgrpc.WithHeaders(e.Headers),
		)
	}
	return otlpmetrichttp.New(
		ctx,
		otlpmetrichttp.WithEndpointURL(e.Endpoint),
		otlpmetrichttp.WithHeaders(e.Headers),
	)
}
