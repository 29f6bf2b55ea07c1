// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/telekom/lookingglass/internal/logger"
)

// Config is the telemetry configuration of the looking glass
type Config struct {
	// Enabled exports the spans of the diagnostic runs
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Exporter is the exporter the spans are sent with
	Exporter Exporter `yaml:"exporter" mapstructure:"exporter"`
	// Url is the endpoint of the collector, e.g. "https://otel.example.net:4318"
	Url string `yaml:"url" mapstructure:"url"`
	// Token is sent as bearer token to the collector
	Token string `yaml:"token" mapstructure:"token"`
	// SampleRatio is the share of runs that are traced, between 0 and 1.
	// Zero traces every run.
	SampleRatio float64 `yaml:"sampleRatio" mapstructure:"sampleRatio"`
	// TLS holds the tls configuration
	TLS TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// TLSConfig is the tls configuration of the collector connection
type TLSConfig struct {
	// Enabled uses tls for the collector connection
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// CertPath is the path to a CA certificate file.
	// Only needed if the collector uses a certificate of a private CA.
	CertPath string `yaml:"certPath" mapstructure:"certPath"`
}

// Validate validates the telemetry configuration
func (c *Config) Validate(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if err := c.Exporter.Validate(); err != nil {
		log.ErrorContext(ctx, "Invalid exporter", "error", err)
		return err
	}
	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		log.ErrorContext(ctx, "Sample ratio is out of range", "sampleRatio", c.SampleRatio)
		return ErrInvalidSampleRatio
	}

	if !c.Exporter.IsExporting() {
		return nil
	}
	if c.Url == "" {
		log.ErrorContext(ctx, "Url is required for otlp exporter", "exporter", c.Exporter)
		return fmt.Errorf("url is required for otlp exporter %q", c.Exporter)
	}
	if u, err := url.Parse(c.Url); err != nil || u.Host == "" {
		log.ErrorContext(ctx, "Url of the otlp exporter is invalid", "url", c.Url)
		return errors.Join(ErrInvalidURL, err)
	}
	return nil
}
