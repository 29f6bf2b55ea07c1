// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package mtr aggregates the raw output of "mtr --raw" into per hop
// network quality statistics and renders them as a report.
//
// The raw protocol is line based. Every line is one event:
//
//	h <hop> <address>          an address answered for the hop
//	p <hop> <usec> [<seq>]     a probe to the hop returned after usec microseconds
//
// Other event types (DNS names, transmits, MPLS labels) are ignored.
//
// Typical usage:
//
//	agg := mtr.NewAggregator()
//	for line := range lines {
//		agg.Update(ctx, line)
//	}
//	report, err := agg.Render(mtr.FormatText)
package mtr
