// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package mtr

import (
	"math"
	"slices"
)

// unknownHost is displayed for hops that never answered.
const unknownHost = "???"

// Hop is the aggregated state of one position in the path.
type Hop struct {
	// Index is the 0-based position of the hop.
	Index int
	// Addresses holds every address reported for the hop, in arrival order.
	Addresses []string
	// Hostnames holds the reverse lookup result of the address at the same
	// position in Addresses. An empty string means the lookup failed.
	Hostnames []string
	// Timings holds the round trip time of every answered probe in milliseconds.
	Timings []float64
	// Sent is the number of probes sent to the hop.
	Sent int
}

// Stats are the statistics derived from a [Hop].
type Stats struct {
	Index    int     `json:"index" yaml:"index"`
	Host     string  `json:"host" yaml:"host"`
	Loss     float64 `json:"loss" yaml:"loss"`
	Sent     int     `json:"sent" yaml:"sent"`
	Received int     `json:"received" yaml:"received"`
	Last     float64 `json:"last" yaml:"last"`
	Avg      float64 `json:"avg" yaml:"avg"`
	Best     float64 `json:"best" yaml:"best"`
	Worst    float64 `json:"worst" yaml:"worst"`
	StDev    float64 `json:"stdev" yaml:"stdev"`
}

// firstAddress returns the first address reported for the hop, if any.
func (h *Hop) firstAddress() (string, bool) {
	if len(h.Addresses) == 0 {
		return "", false
	}
	return h.Addresses[0], true
}

// DisplayHost returns the hostname of the first address, the first
// address itself if it did not resolve, or "???" for hops without any answer.
func (h *Hop) DisplayHost() string {
	if len(h.Hostnames) > 0 && h.Hostnames[0] != "" {
		return h.Hostnames[0]
	}
	if addr, ok := h.firstAddress(); ok {
		return addr
	}
	return unknownHost
}

// Stats derives the statistics of the hop. It does not modify the hop.
func (h *Hop) Stats() Stats {
	s := Stats{
		Index:    h.Index,
		Host:     h.DisplayHost(),
		Sent:     h.Sent,
		Received: len(h.Timings),
		Loss:     100,
	}
	if s.Received == 0 {
		return s
	}

	if s.Sent > 0 {
		s.Loss = 100 * float64(s.Sent-s.Received) / float64(s.Sent)
	}
	s.Last = h.Timings[len(h.Timings)-1]
	s.Best = slices.Min(h.Timings)
	s.Worst = slices.Max(h.Timings)
	s.Avg = mean(h.Timings)
	s.StDev = stdev(h.Timings, s.Avg)
	return s
}

// clone returns a deep copy of the hop.
func (h *Hop) clone() Hop {
	return Hop{
		Index:     h.Index,
		Addresses: slices.Clone(h.Addresses),
		Hostnames: slices.Clone(h.Hostnames),
		Timings:   slices.Clone(h.Timings),
		Sent:      h.Sent,
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdev returns the sample standard deviation (n-1 divisor).
// Fewer than two values yield 0.
func stdev(values []float64, avg float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sq float64
	for _, v := range values {
		sq += (v - avg) * (v - avg)
	}
	return math.Sqrt(sq / float64(len(values)-1))
}
