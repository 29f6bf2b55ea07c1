// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	instanceInfoMetricName = "lookingglass_instance_info"
	instanceInfoHelp       = "Location metadata of this looking glass instance. Emitted once per instance."
)

// InstanceInfo is the metadata published by the instance info metric
type InstanceInfo struct {
	// Name is the DNS name of the looking glass
	Name     string
	Location string
	IPv4     string
	IPv6     string
}

// RegisterInstanceInfo registers the lookingglass_instance_info info-style metric on the given registry.
// It sets the gauge to 1 with labels instance_name, location, ipv4 and ipv6.
// Empty strings are allowed for the optional metadata.
func RegisterInstanceInfo(registry *prometheus.Registry, info InstanceInfo) error {
	g := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: instanceInfoMetricName,
			Help: instanceInfoHelp,
		},
		[]string{"instance_name", "location", "ipv4", "ipv6"},
	)
	g.WithLabelValues(info.Name, info.Location, info.IPv4, info.IPv6).Set(1)
	return registry.Register(g)
}
