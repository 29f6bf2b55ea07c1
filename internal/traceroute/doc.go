// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package traceroute watches the output of a running traceroute process.
//
// A [Monitor] observes every output line in order. It aligns the labels of
// the first single digit hops with the later two digit ones and detects when
// the path is unreachable: once a run of consecutive hops reports no answer
// to any probe ("* * *") reaches the configured threshold, waiting for the
// remaining hops is pointless and the run can be cut short.
//
// Typical usage:
//
//	m := traceroute.NewMonitor(4)
//	for line := range lines {
//		out, stop := m.Observe(line)
//		emit(out)
//		if stop {
//			emit(traceroute.TimedOutMarker)
//			break
//		}
//	}
package traceroute
