// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package runner

import "strings"

// UnresolvedSentinel replaces the output of a run whose target could not be
// resolved for the requested address family.
const UnresolvedSentinel = "Unauthorized request"

// EventType is the type of an [Event].
type EventType int

const (
	// EventLine is one line of process output.
	EventLine EventType = iota + 1
	// EventReport is the rendered mtr report, a multi-line block.
	EventReport
	// EventTimedOut marks a traceroute run that was cut short.
	EventTimedOut
	// EventUnresolved marks a target that could not be resolved.
	EventUnresolved
)

func (t EventType) String() string {
	switch t {
	case EventLine:
		return "line"
	case EventReport:
		return "report"
	case EventTimedOut:
		return "timed-out"
	case EventUnresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Event is one unit of output of a run.
type Event struct {
	Type EventType
	// Text is the output without a trailing newline, except for reports
	// which end in one.
	Text string
}

// Line returns the text of the event terminated by exactly one newline.
func (e Event) Line() string {
	if strings.HasSuffix(e.Text, "\n") {
		return e.Text
	}
	return e.Text + "\n"
}
