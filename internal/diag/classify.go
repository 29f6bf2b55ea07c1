// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package diag

import "strings"

// LineClass is the classification of a single line of diagnostic output.
type LineClass int

const (
	// Ordinary is any line without special meaning.
	Ordinary LineClass = iota
	// ResolutionFailure marks a resolver error, typically an IPv6-only
	// hostname passed to an IPv4 run or vice versa.
	ResolutionFailure
	// AllProbesLost marks a traceroute hop where every probe timed out.
	AllProbesLost
)

// AllProbesLostMarker is printed by traceroute for a hop without any reply.
const AllProbesLostMarker = "* * *"

// resolverErrors are the messages ping, traceroute and mtr print
// when the target cannot be resolved for the requested family.
var resolverErrors = []string{
	"Name or service not known",
	"unknown host",
	"Address family for hostname not supported",
	"No address associated with hostname",
}

func (c LineClass) String() string {
	switch c {
	case ResolutionFailure:
		return "resolution-failure"
	case AllProbesLost:
		return "all-probes-lost"
	default:
		return "ordinary"
	}
}

// Classify classifies one line of stdout or stderr output of a run of kind k.
func Classify(k Kind, line string) LineClass {
	for _, msg := range resolverErrors {
		if strings.Contains(line, msg) {
			return ResolutionFailure
		}
	}
	if k.IsTraceroute() && strings.Contains(line, AllProbesLostMarker) {
		return AllProbesLost
	}
	return Ordinary
}
