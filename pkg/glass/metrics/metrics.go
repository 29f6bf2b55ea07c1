// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/telekom/lookingglass/internal/logger"
	"github.com/telekom/lookingglass/pkg"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const serviceName = "lookingglass"

// Limits of the batch span processor. Every diagnostic run produces a
// single span, so small batches are flushed quickly.
const (
	exportTimeout = 5 * time.Second
	spanQueueSize = 1000
	spanBatchSize = 100
)

var _ Provider = (*manager)(nil)

// Provider owns the prometheus registry and the tracer provider of the
// looking glass.
//
//go:generate go tool moq -out metrics_moq.go . Provider
type Provider interface {
	// GetRegistry returns the prometheus registry instance
	// containing the registered prometheus collectors
	GetRegistry() *prometheus.Registry
	// InitTracing initializes the OpenTelemetry tracing
	InitTracing(ctx context.Context) error
	// Shutdown flushes the pending spans and stops the tracing
	Shutdown(ctx context.Context) error
}

type manager struct {
	config   Config
	registry *prometheus.Registry
	tp       *sdktrace.TracerProvider
}

// New creates a registry with the go runtime and process collectors
//
//nolint:gocritic
func New(config Config) Provider {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &manager{
		config:   config,
		registry: registry,
	}
}

// GetRegistry returns the registry to register prometheus metrics
func (m *manager) GetRegistry() *prometheus.Registry {
	return m.registry
}

// InitTracing installs a global tracer provider for the spans of the
// diagnostic runs. Spans are only exported if telemetry is enabled.
func (m *manager) InitTracing(ctx context.Context) error {
	log := logger.FromContext(ctx)

	res, err := newResource(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create resource", "error", err)
		return fmt.Errorf("failed to create resource: %w", err)
	}

	exp := m.config.Exporter
	if !m.config.Enabled {
		exp = NOOP
	}
	exporter, err := exp.Create(ctx, &m.config)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create exporter", "exporter", exp, "error", err)
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	m.tp = sdktrace.NewTracerProvider(
		sdktrace.WithSampler(m.sampler()),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter,
			sdktrace.WithBatchTimeout(exportTimeout),
			sdktrace.WithMaxQueueSize(spanQueueSize),
			sdktrace.WithMaxExportBatchSize(spanBatchSize),
		)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(m.tp)
	log.DebugContext(ctx, "Tracing of diagnostic runs initialized", "exporter", exp, "sampleRatio", m.config.SampleRatio)
	return nil
}

// sampler samples every run unless a ratio is configured.
// Remote parents decide for themselves.
func (m *manager) sampler() sdktrace.Sampler {
	if m.config.SampleRatio <= 0 || m.config.SampleRatio >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(m.config.SampleRatio))
}

func newResource(ctx context.Context) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(pkg.GetVersion()),
		),
	)
}

// Shutdown flushes the pending spans and stops the tracing
func (m *manager) Shutdown(ctx context.Context) error {
	if m.tp == nil {
		return nil
	}
	log := logger.FromContext(ctx)
	if err := m.tp.Shutdown(ctx); err != nil {
		log.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	log.DebugContext(ctx, "Tracing stopped")
	return nil
}
