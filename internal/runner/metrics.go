// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of a run as reported by the runs metric.
const (
	outcomeCompleted  = "completed"
	outcomeCutoff     = "cutoff"
	outcomeUnresolved = "unresolved"
	outcomeAborted    = "aborted"
	outcomeTimeout    = "timeout"
	outcomeSpawnError = "spawn_error"
)

// metrics defines the metric collectors of the runner
type metrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	active   prometheus.Gauge
	cutoffs  prometheus.Counter
}

// newMetrics initializes metric collectors of the runner
func newMetrics() *metrics {
	return &metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lookingglass_runs_total",
				Help: "Total number of diagnostic runs by method and outcome.",
			},
			[]string{"method", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lookingglass_run_duration_seconds",
				Help:    "Duration of diagnostic runs in seconds.",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
			},
			[]string{"method"},
		),
		active: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lookingglass_active_runs",
				Help: "Number of diagnostic runs in progress.",
			},
		),
		cutoffs: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lookingglass_traceroute_cutoffs_total",
				Help: "Total number of traceroute runs cut short because the target was unreachable.",
			},
		),
	}
}

// GetCollectors returns all metric collectors
func (m *metrics) GetCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.runs,
		m.duration,
		m.active,
		m.cutoffs,
	}
}

// started records the start of a run
func (m *metrics) started() {
	m.active.Inc()
}

// finished records the end of a started run
func (m *metrics) finished(method, outcome string, d time.Duration) {
	m.active.Dec()
	m.runs.WithLabelValues(method, outcome).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
	if outcome == outcomeCutoff {
		m.cutoffs.Inc()
	}
}

// failed records a run that could not be started
func (m *metrics) failed(method string) {
	m.runs.WithLabelValues(method, outcomeSpawnError).Inc()
}
