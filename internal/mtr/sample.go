// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package mtr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedLine is returned for lines that are not a recognized raw mtr sample.
var ErrMalformedLine = errors.New("malformed mtr line")

// Raw protocol tags understood by the parser.
const (
	tagHost = "h"
	tagPing = "p"
)

// Sample is one parsed line of mtr's raw output.
// It is either a [HostSample] or a [TimingSample].
type Sample interface {
	// HopIndex returns the 0-based position of the hop in the path.
	HopIndex() int
	isSample()
}

// HostSample reports an address that answered for a hop.
type HostSample struct {
	Index   int
	Address string
}

// TimingSample reports the round trip time of one probe to a hop.
type TimingSample struct {
	Index        int
	Microseconds float64
}

func (s HostSample) HopIndex() int   { return s.Index }
func (s TimingSample) HopIndex() int { return s.Index }
func (HostSample) isSample()         {}
func (TimingSample) isSample()       {}

// ParseSample parses a single raw mtr line, e.g. "h 3 192.0.2.1" or
// "p 3 12034 7". Fields are separated by exactly one space. Host lines
// must have three fields, ping lines three or four; the sequence number
// in the fourth field is ignored.
func ParseSample(line string) (Sample, error) {
	fields := strings.Split(line, " ")
	if len(fields) < 3 {
		return nil, fmt.Errorf("%w: %d fields", ErrMalformedLine, len(fields))
	}

	tag := fields[0]
	switch {
	case len(fields) == 3:
	case len(fields) == 4 && tag == tagPing:
	default:
		return nil, fmt.Errorf("%w: %d fields for tag %q", ErrMalformedLine, len(fields), tag)
	}

	idx, err := strconv.Atoi(fields[1])
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: invalid hop index %q", ErrMalformedLine, fields[1])
	}

	value := fields[2]
	switch tag {
	case tagHost:
		if value == "" {
			return nil, fmt.Errorf("%w: empty address", ErrMalformedLine)
		}
		return HostSample{Index: idx, Address: value}, nil
	case tagPing:
		usec, err := strconv.ParseFloat(value, 64)
		if err != nil || usec < 0 {
			return nil, fmt.Errorf("%w: invalid round trip time %q", ErrMalformedLine, value)
		}
		return TimingSample{Index: idx, Microseconds: usec}, nil
	default:
		return nil, fmt.Errorf("%w: unknown tag %q", ErrMalformedLine, tag)
	}
}
