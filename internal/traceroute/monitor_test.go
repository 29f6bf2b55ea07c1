// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// observeAll feeds lines to m until it stops. It returns the emitted lines
// and the number of the line that stopped the run, or -1.
func observeAll(m *Monitor, lines []string) (out []string, stoppedAt int) {
	for i, l := range lines {
		o, stop := m.Observe(l)
		out = append(out, o)
		if stop {
			return out, i
		}
	}
	return out, -1
}

func TestMonitor_Observe_cutoff(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		lines     []string
		wantStop  int
	}{
		{
			name:      "four consecutive lost hops",
			threshold: 4,
			lines: []string{
				"traceroute to 192.0.2.1 (192.0.2.1), 30 hops max, 60 byte packets",
				" 1  198.51.100.1  0.512 ms  0.430 ms  0.401 ms",
				" 2  * * *",
				" 3  * * *",
				" 4  * * *",
				" 5  * * *",
				" 6  * * *",
			},
			wantStop: 5,
		},
		{
			name:      "lost hops separated by an answer",
			threshold: 4,
			lines: []string{
				" 1  * * *",
				" 2  * * *",
				" 3  198.51.100.1  1.002 ms  0.950 ms  0.932 ms",
				" 4  * * *",
				" 5  * * *",
			},
			wantStop: -1,
		},
		{
			name:      "threshold of two",
			threshold: 2,
			lines:     []string{" 1  * * *", " 2  * * *", " 3  * * *"},
			wantStop:  1,
		},
		{
			name:      "default threshold",
			threshold: 0,
			lines:     []string{" 1  * * *", " 2  * * *", " 3  * * *", " 4  * * *"},
			wantStop:  3,
		},
		{
			name:      "partial loss is no failure",
			threshold: 2,
			lines:     []string{" 1  * 198.51.100.1  0.512 ms *", " 2  * 198.51.100.2  0.700 ms *"},
			wantStop:  -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitor(tt.threshold)
			_, stoppedAt := observeAll(m, tt.lines)
			assert.Equal(t, tt.wantStop, stoppedAt)
			if tt.wantStop >= 0 {
				assert.Equal(t, Cutoff, m.State())
			} else {
				assert.Equal(t, Running, m.State())
			}
		})
	}
}

func TestMonitor_Observe_separatedFailuresNeverStop(t *testing.T) {
	m := NewMonitor(4)
	for i := range 30 {
		line := fmt.Sprintf("%2d  * * *", i+1)
		if i%4 == 3 {
			line = fmt.Sprintf("%2d  198.51.100.%d  1.000 ms", i+1, i)
		}
		_, stop := m.Observe(line)
		require.False(t, stop, "line %d", i)
	}
}

func TestMonitor_Observe_afterCutoff(t *testing.T) {
	m := NewMonitor(2)
	_, stop := m.Observe(" 1  * * *")
	require.False(t, stop)
	_, stop = m.Observe(" 2  * * *")
	require.True(t, stop)

	out, stop := m.Observe("3 anything")
	assert.True(t, stop)
	assert.Equal(t, "3 anything", out)
}

func TestMonitor_Observe_relabel(t *testing.T) {
	m := NewMonitor(DefaultFailThreshold)

	out, _ := m.Observe("1 198.51.100.1 0.5 ms")
	assert.Equal(t, "  1 198.51.100.1 0.5 ms", out)

	out, _ = m.Observe("traceroute to example.net")
	assert.Equal(t, "traceroute to example.net", out)

	out, _ = m.Observe(" 2  198.51.100.2 0.5 ms")
	assert.Equal(t, " 2  198.51.100.2 0.5 ms", out)

	out, _ = m.Observe("12 198.51.100.12 0.5 ms")
	assert.Equal(t, "12 198.51.100.12 0.5 ms", out)
}

func TestMonitor_Observe_relabelLimit(t *testing.T) {
	m := NewMonitor(DefaultFailThreshold)
	for i := range maxRelabel {
		out, _ := m.Observe("5 host")
		require.Equal(t, "  5 host", out, "line %d", i)
	}

	out, _ := m.Observe("5 host")
	assert.Equal(t, "5 host", out)
}

func TestNewMonitor(t *testing.T) {
	assert.Equal(t, DefaultFailThreshold, NewMonitor(-3).Threshold())
	assert.Equal(t, 7, NewMonitor(7).Threshold())
	assert.Equal(t, Start, NewMonitor(7).State())
	assert.Equal(t, "start", Start.String())
	assert.Equal(t, "cutoff", Cutoff.String())
}
