// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
)

func gatherInstanceInfo(t *testing.T, registry *prometheus.Registry) map[string]string {
	t.Helper()
	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	for _, mf := range families {
		if mf.GetName() != instanceInfoMetricName {
			continue
		}
		if len(mf.GetMetric()) != 1 {
			t.Fatalf("expected 1 metric, got %d", len(mf.GetMetric()))
		}
		m := mf.GetMetric()[0]
		if m.GetGauge().GetValue() != 1 {
			t.Errorf("expected value 1, got %v", m.GetGauge().GetValue())
		}
		labels := make(map[string]string)
		for _, lp := range m.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		return labels
	}
	t.Fatal("lookingglass_instance_info metric not found in registry")
	return nil
}

func TestRegisterInstanceInfo(t *testing.T) {
	tests := []struct {
		name string
		info InstanceInfo
		want map[string]string
	}{
		{
			name: "full metadata",
			info: InstanceInfo{Name: "lg.example.net", Location: "DE", IPv4: "192.0.2.10", IPv6: "2001:db8::10"},
			want: map[string]string{"instance_name": "lg.example.net", "location": "DE", "ipv4": "192.0.2.10", "ipv6": "2001:db8::10"},
		},
		{
			name: "name only",
			info: InstanceInfo{Name: "lg.example.net"},
			want: map[string]string{"instance_name": "lg.example.net", "location": "", "ipv4": "", "ipv6": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := prometheus.NewRegistry()
			if err := RegisterInstanceInfo(registry, tt.info); err != nil {
				t.Fatalf("RegisterInstanceInfo() error = %v", err)
			}

			got := gatherInstanceInfo(t, registry)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRegisterInstanceInfo_doubleRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()

	if err := RegisterInstanceInfo(registry, InstanceInfo{Name: "lg.example.net", Location: "DE"}); err != nil {
		t.Fatalf("first RegisterInstanceInfo() error = %v", err)
	}

	err := RegisterInstanceInfo(registry, InstanceInfo{Name: "other.example.net", Location: "NL"})
	if err == nil {
		t.Fatal("expected second RegisterInstanceInfo to return an error (duplicate collector)")
	}

	var alreadyErr prometheus.AlreadyRegisteredError
	if !errors.As(err, &alreadyErr) {
		t.Errorf("expected AlreadyRegisteredError, got %T: %v", err, err)
	}
}
