// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"fmt"
	"slices"
	"strings"
)

// Kind is a network path diagnostic the agent is able to run.
type Kind int

const (
	// Ping4 is an ICMP echo run over IPv4
	Ping4 Kind = iota + 1
	// Ping6 is an ICMP echo run over IPv6
	Ping6
	// Traceroute4 is a traceroute over IPv4
	Traceroute4
	// Traceroute6 is a traceroute over IPv6
	Traceroute6
	// Mtr4 is an mtr report cycle over IPv4
	Mtr4
	// Mtr6 is an mtr report cycle over IPv6
	Mtr6
)

// Tool names of the external binaries a [Kind] is executed with.
const (
	ToolPing       = "ping"
	ToolTraceroute = "traceroute"
	ToolMtr        = "mtr"
)

var names = map[Kind]string{
	Ping4:       "ping",
	Ping6:       "ping6",
	Traceroute4: "traceroute",
	Traceroute6: "traceroute6",
	Mtr4:        "mtr",
	Mtr6:        "mtr6",
}

// Kinds returns all known kinds in declaration order.
func Kinds() []Kind {
	return []Kind{Ping4, Ping6, Traceroute4, Traceroute6, Mtr4, Mtr6}
}

// ParseKind returns the kind for its method name, e.g. "traceroute6".
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range names {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown diagnostic method %q", s)
}

// String returns the method name of the kind.
func (k Kind) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return "unknown"
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	return slices.Contains(Kinds(), k)
}

// IsPing reports whether k is a ping variant.
func (k Kind) IsPing() bool {
	return k == Ping4 || k == Ping6
}

// IsTraceroute reports whether k is a traceroute variant.
func (k Kind) IsTraceroute() bool {
	return k == Traceroute4 || k == Traceroute6
}

// IsMtr reports whether k is an mtr variant.
func (k Kind) IsMtr() bool {
	return k == Mtr4 || k == Mtr6
}

// Family returns the IP address family (4 or 6) the kind runs over.
func (k Kind) Family() int {
	switch k {
	case Ping6, Traceroute6, Mtr6:
		return 6
	default:
		return 4
	}
}

// Tool returns the name of the binary executing the kind.
func (k Kind) Tool() string {
	switch {
	case k.IsMtr():
		return ToolMtr
	case k.IsTraceroute():
		return ToolTraceroute
	default:
		return ToolPing
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (k Kind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("invalid diagnostic kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
