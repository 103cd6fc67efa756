// Package telemetry wires OpenTelemetry tracing into the HTTP and
// persistence layers.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Config holds tracing configuration
type Config struct {
	Enabled       bool
	Endpoint      string // OTLP gRPC collector endpoint, host:port
	SamplingRatio float64
	ServiceName   string
	Insecure      bool
}

// Provider owns the tracer provider lifecycle. When tracing is disabled it
// is a no-op shell and every method returns immediately, so callers never
// need to branch on the config themselves.
type Provider struct {
	provider *sdktrace.TracerProvider
	logger   *zap.Logger
	config   Config
}

// NewProvider builds a Provider and installs it as the global tracer
// provider. Disabled config yields a no-op Provider and leaves the global
// untouched.
func NewProvider(ctx context.Context, cfg Config, logger *zap.Logger) (*Provider, error) {
	p := &Provider{logger: logger, config: cfg}

	if !cfg.Enabled {
		logger.Info("Tracing disabled")
		return p, nil
	}

	exporterOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var sampler sdktrace.Sampler
	switch cfg.SamplingRatio {
	case 1.0:
		sampler = sdktrace.AlwaysSample()
	case 0.0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(cfg.SamplingRatio)
	}

	p.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(p.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracing initialized",
		zap.String("endpoint", cfg.Endpoint),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
		zap.String("service_name", cfg.ServiceName),
	)

	return p, nil
}

// IsEnabled reports whether spans are actually being recorded
func (p *Provider) IsEnabled() bool {
	return p.config.Enabled && p.provider != nil
}

// Tracer returns a named tracer
func (p *Provider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	if p.provider == nil {
		return otel.GetTracerProvider().Tracer(name, opts...)
	}
	return p.provider.Tracer(name, opts...)
}

// ForceFlush exports all pending spans
func (p *Provider) ForceFlush(ctx context.Context) error {
	if p.provider == nil {
		return nil
	}
	return p.provider.ForceFlush(ctx)
}

// Shutdown flushes pending spans and releases the exporter. Safe to call
// on a disabled Provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.provider.Shutdown(shutdownCtx); err != nil {
		p.logger.Error("Error shutting down tracer provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	return nil
}
