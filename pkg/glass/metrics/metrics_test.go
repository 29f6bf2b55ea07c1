// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewMetrics(t *testing.T) {
	m := New(Config{})
	testGauge := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "TEST_GAUGE",
		},
	)

	require.NoError(t, m.GetRegistry().Register(testGauge))

	families, err := m.GetRegistry().Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "TEST_GAUGE")
	assert.Contains(t, names, "go_goroutines")
}

func TestMetrics_InitTracing(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "success - stdout exporter",
			config: Config{Enabled: true, Exporter: STDOUT},
		},
		{
			name:   "success - otlp http exporter",
			config: Config{Enabled: true, Exporter: HTTP, Url: "http://localhost:4318"},
		},
		{
			name:   "success - otlp grpc exporter with token",
			config: Config{Enabled: true, Exporter: GRPC, Url: "http://localhost:4317", Token: "my-super-secret-token"},
		},
		{
			name:   "success - no exporter",
			config: Config{Enabled: true, Exporter: NOOP},
		},
		{
			name:   "success - telemetry disabled",
			config: Config{Exporter: "unsupported"},
		},
		{
			name:    "failure - unsupported exporter",
			config:  Config{Enabled: true, Exporter: "unsupported"},
			wantErr: true,
		},
		{
			name:    "failure - missing certificate",
			config:  Config{Enabled: true, Exporter: GRPC, Url: "https://localhost:4317", TLS: TLSConfig{Enabled: true, CertPath: "does/not/exist.pem"}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.config)
			err := m.InitTracing(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
			assert.True(t, ok, "tracer provider type = %T", otel.GetTracerProvider())
			require.NoError(t, m.Shutdown(context.Background()))
		})
	}
}

func TestMetrics_sampler(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  string
	}{
		{name: "unset", ratio: 0, want: sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{name: "one", ratio: 1, want: sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{name: "ratio", ratio: 0.25, want: sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.25)).Description()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &manager{config: Config{SampleRatio: tt.ratio}}
			assert.Equal(t, tt.want, m.sampler().Description())
		})
	}
}

func TestMetrics_ShutdownWithoutTracing(t *testing.T) {
	m := New(Config{})
	assert.NoError(t, m.Shutdown(t.Context()))
}
