// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"slices"
	"strings"

	"github.com/telekom/lookingglass/internal/diag"
	"github.com/telekom/lookingglass/internal/runner"
	"github.com/telekom/lookingglass/pkg/api"
	"github.com/telekom/lookingglass/pkg/glass/metrics"
)

// DefaultMethods are the methods enabled when none are configured
var DefaultMethods = []string{diag.ToolPing, diag.ToolTraceroute, diag.ToolMtr}

// Metadata describes where the looking glass is located.
// It is published on the info endpoint and as the lookingglass_instance_info metric.
type Metadata struct {
	// Location is a free text location, e.g. a country code or a datacenter
	Location string `yaml:"location" mapstructure:"location"`
	// IPv4 is the public IPv4 address the diagnostics originate from
	IPv4 string `yaml:"ipv4" mapstructure:"ipv4"`
	// IPv6 is the public IPv6 address the diagnostics originate from
	IPv6 string `yaml:"ipv6" mapstructure:"ipv6"`
}

type Config struct {
	// Name is the DNS name of the looking glass
	Name string `yaml:"name" mapstructure:"name"`
	// Metadata is the published location information
	Metadata Metadata `yaml:"metadata" mapstructure:"metadata"`
	// Methods are the enabled diagnostic methods. A tool name like "ping"
	// enables both address families, a method name like "ping6" only one.
	Methods []string `yaml:"methods" mapstructure:"methods"`
	// Api is the configuration for the api server
	Api api.Config `yaml:"api" mapstructure:"api"`
	// Diagnostics is the configuration of the diagnostic runs
	Diagnostics runner.Config `yaml:"diagnostics" mapstructure:"diagnostics"`
	// Telemetry is the configuration for the telemetry
	Telemetry metrics.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// HasTelemetry returns true if the config has telemetry enabled
func (c *Config) HasTelemetry() bool {
	return c.Telemetry.Enabled
}

// EnabledKinds returns the enabled diagnostic kinds in declaration order.
// Without configured methods the [DefaultMethods] are enabled.
// Unknown methods are ignored.
func (c *Config) EnabledKinds() []diag.Kind {
	methods := c.Methods
	if len(methods) == 0 {
		methods = DefaultMethods
	}

	var kinds []diag.Kind
	for _, k := range diag.Kinds() {
		if slices.ContainsFunc(methods, func(m string) bool { return enables(m, k) }) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// enables reports whether the configured method m enables k
func enables(m string, k diag.Kind) bool {
	m = strings.ToLower(strings.TrimSpace(m))
	if m == k.Tool() {
		return true
	}
	return m == k.String()
}

// isKnownMethod reports whether m enables any kind
func isKnownMethod(m string) bool {
	return slices.ContainsFunc(diag.Kinds(), func(k diag.Kind) bool { return enables(m, k) })
}
