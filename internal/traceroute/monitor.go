// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"regexp"

	"github.com/telekom/lookingglass/internal/diag"
)

const (
	// DefaultFailThreshold is the number of consecutive hops without any
	// answer after which the path is considered unreachable.
	DefaultFailThreshold = 4
	// TimedOutMarker is emitted after the last line of a cut short run.
	TimedOutMarker = "-- Traceroute timed out --"

	// maxRelabel bounds the number of relabeled lines. Only hops 1 to 9
	// carry a single digit label.
	maxRelabel = 10
	// noFail is the value of lastFail before the first failed hop.
	noFail = -1
)

var singleDigitLabel = regexp.MustCompile(`^[0-9] `)

// State is the state of a [Monitor].
type State int

const (
	// Start is the state before the first observed line.
	Start State = iota
	// Running is the state while lines are observed.
	Running
	// Cutoff is the terminal state after the path was found unreachable.
	Cutoff
)

func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case Running:
		return "running"
	case Cutoff:
		return "cutoff"
	default:
		return "unknown"
	}
}

// Monitor is the per run state machine over the output lines of a
// traceroute. It is not safe for concurrent use.
type Monitor struct {
	threshold int
	state     State
	// matched counts the relabeled lines
	matched          int
	consecutiveFails int
	// lastFail is the line number of the last failed hop or noFail
	lastFail int
	// line is the number of observed lines
	line int
}

// NewMonitor returns a monitor that cuts a run short after threshold
// consecutive hops without any answer. A threshold below 1 selects
// [DefaultFailThreshold]. A cutoff always needs two failed hops in a row,
// so a threshold of 1 behaves like 2.
func NewMonitor(threshold int) *Monitor {
	if threshold < 1 {
		threshold = DefaultFailThreshold
	}
	return &Monitor{
		threshold: threshold,
		state:     Start,
		lastFail:  noFail,
	}
}

// Observe processes the next output line. It returns the line to emit,
// which may be relabeled, and whether the run should stop. Once the run
// stopped every further line is returned unchanged with stop set.
func (m *Monitor) Observe(line string) (out string, stop bool) {
	if m.state == Cutoff {
		return line, true
	}
	m.state = Running
	defer func() { m.line++ }()

	if m.matched < maxRelabel && singleDigitLabel.MatchString(line) {
		line = "  " + line
		m.matched++
	}

	if diag.Classify(diag.Traceroute4, line) != diag.AllProbesLost {
		m.consecutiveFails = 0
		return line, false
	}

	m.consecutiveFails++
	if m.lastFail != noFail && m.lastFail == m.line-1 && m.consecutiveFails >= m.threshold {
		m.state = Cutoff
		return line, true
	}
	m.lastFail = m.line
	return line, false
}

// State returns the current state.
func (m *Monitor) State() State {
	return m.state
}

// Threshold returns the number of consecutive failed hops that stops a run.
func (m *Monitor) Threshold() int {
	return m.threshold
}
