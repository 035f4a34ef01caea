// Package telemetry sets up OpenTelemetry metrics for mcp-gcp.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Config holds telemetry settings.
type Config struct {
	ServiceName string
	Enabled     bool
}

// Providers bundles the initialized otel providers.
// When telemetry is disabled, Meter is a no-op meter and Shutdown does nothing.
type Providers struct {
	Meter metric.Meter

	serviceName   string
	enabled       bool
	meterProvider *sdkmetric.MeterProvider
}

// Init initializes the otel meter provider backed by a prometheus exporter.
// The exporter registers with the default prometheus registry, so promhttp.Handler() serves it.
func Init(ctx context.Context, c *Config) (*Providers, error) {
	p := &Providers{
		serviceName: c.ServiceName,
		enabled:     c.Enabled,
	}
	if !c.Enabled {
		p.Meter = noop.NewMeterProvider().Meter(c.ServiceName)
		return p, nil
	}

	exporter, err := otelprom.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(attribute.String("service.name", c.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("failed to create otel resource: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(p.meterProvider)
	p.Meter = p.meterProvider.Meter(c.ServiceName)

	return p, nil
}

// IsEnabled returns true if telemetry is enabled.
func (p *Providers) IsEnabled() bool {
	return p != nil && p.enabled
}

// ServiceName returns the name the providers were initialized with.
func (p *Providers) ServiceName() string {
	return p.serviceName
}

// Shutdown flushes and stops the providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil || p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
