// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials"
)

var (
	// ErrInvalidExporter is returned for an unknown exporter
	ErrInvalidExporter = errors.New("invalid exporter")
	// ErrInvalidURL is returned when the collector url is invalid
	ErrInvalidURL = errors.New("invalid collector url")
	// ErrInvalidSampleRatio is returned when the sample ratio is not between 0 and 1
	ErrInvalidSampleRatio = errors.New("sample ratio must be between 0 and 1")
)

// Exporter is the protocol traces are exported with
type Exporter string

const (
	// HTTP exports traces with otlp over http
	HTTP Exporter = "http"
	// GRPC exports traces with otlp over grpc
	GRPC Exporter = "grpc"
	// STDOUT writes traces to stdout
	STDOUT Exporter = "stdout"
	// NOOP drops all traces
	NOOP Exporter = "noop"
)

// String returns the name of the exporter
func (e Exporter) String() string {
	return string(e)
}

// Validate validates the exporter. An empty exporter equals [NOOP].
func (e Exporter) Validate() error {
	switch e {
	case HTTP, GRPC, STDOUT, NOOP, "":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidExporter, string(e))
	}
}

// IsExporting reports whether traces are sent to a collector
func (e Exporter) IsExporting() bool {
	return e == HTTP || e == GRPC
}

// Create creates the span exporter configured by cfg
func (e Exporter) Create(ctx context.Context, cfg *Config) (sdktrace.SpanExporter, error) {
	switch e {
	case HTTP:
		return newHTTPExporter(ctx, cfg)
	case GRPC:
		return newGRPCExporter(ctx, cfg)
	case STDOUT:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case NOOP, "":
		return &noopExporter{}, nil
	default:
		return nil, e.Validate()
	}
}

func newHTTPExporter(ctx context.Context, cfg *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(cfg.Url)}
	if cfg.Token != "" {
		opts = append(opts, otlptracehttp.WithHeaders(authHeader(cfg.Token)))
	}

	if !cfg.TLS.Enabled {
		opts = append(opts, otlptracehttp.WithInsecure())
		return otlptracehttp.New(ctx, opts...)
	}
	tlsCfg, err := tlsConfig(cfg.TLS)
	if err != nil {
		return nil, err
	}
	opts = append(opts, otlptracehttp.WithTLSClientConfig(tlsCfg))
	return otlptracehttp.New(ctx, opts...)
}

func newGRPCExporter(ctx context.Context, cfg *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpointURL(cfg.Url)}
	if cfg.Token != "" {
		opts = append(opts, otlptracegrpc.WithHeaders(authHeader(cfg.Token)))
	}

	if !cfg.TLS.Enabled {
		opts = append(opts, otlptracegrpc.WithInsecure())
		return otlptracegrpc.New(ctx, opts...)
	}
	tlsCfg, err := tlsConfig(cfg.TLS)
	if err != nil {
		return nil, err
	}
	opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(tlsCfg)))
	return otlptracegrpc.New(ctx, opts...)
}

func authHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// tlsConfig returns the client tls configuration. Without a certificate
// path the system pool is used.
func tlsConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.CertPath == "" {
		return tlsCfg, nil
	}

	pem, err := os.ReadFile(cfg.CertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificate found in %q", cfg.CertPath)
	}
	tlsCfg.RootCAs = pool
	return tlsCfg, nil
}

var _ sdktrace.SpanExporter = (*noopExporter)(nil)

type noopExporter struct{}

func (*noopExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error {
	return nil
}

func (*noopExporter) Shutdown(context.Context) error {
	return nil
}
