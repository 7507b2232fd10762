// Package instrumentation wires OpenTelemetry metrics (exported through the
// Prometheus registry) and tracing spans around tool invocations. It is
// disabled by default so stdio deployments pay no overhead.
package instrumentation

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// TracerName is the tracer name for this module.
const TracerName = "github.com/clusterscope/mcp-cluster-info"

// Provider owns the OpenTelemetry meter and tracer providers for the
// process lifetime.
type Provider struct {
	config        Config
	enabled       bool
	meterProvider *sdkmetric.MeterProvider
	registry      *prometheus.Registry
	tracer        trace.Tracer
	metrics       *Metrics
}

// NewProvider creates an instrumentation provider. When instrumentation is
// disabled the provider is inert: no exporters are created and the tracer
// is a noop.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	p := &Provider{
		config:  config,
		enabled: config.Enabled,
	}
	if !config.Enabled {
		p.tracer = noop.NewTracerProvider().Tracer(TracerName)
		return p, nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	p.registry = prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(p.registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(p.meterProvider)

	p.tracer = otel.Tracer(TracerName)

	p.metrics, err = NewMetrics(p.meterProvider.Meter(TracerName))
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Config returns the provider configuration.
func (p *Provider) Config() Config {
	if p == nil {
		return Config{}
	}
	return p.config
}

// Enabled reports whether instrumentation is active.
func (p *Provider) Enabled() bool {
	return p != nil && p.enabled
}

// Tracer returns the tracer for creating spans. Safe to call when disabled.
func (p *Provider) Tracer() trace.Tracer {
	if p == nil || p.tracer == nil {
		return noop.NewTracerProvider().Tracer(TracerName)
	}
	return p.tracer
}

// Metrics returns the metric recorders, or nil when disabled.
func (p *Provider) Metrics() *Metrics {
	if p == nil {
		return nil
	}
	return p.metrics
}

// Registry returns the Prometheus registry serving the /metrics endpoint,
// or nil when disabled.
func (p *Provider) Registry() *prometheus.Registry {
	if p == nil {
		return nil
	}
	return p.registry
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
