// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package runner runs ping, traceroute and mtr as subprocesses and streams
// their output.
//
// Every run owns its process. The process is started in its own process
// group and killed as a whole when the run is cut short, the consumer stops
// reading, the context is canceled or the run exceeds its timeout.
//
// Output is post-processed by diagnostic kind: ping lines are passed
// through, traceroute lines go through a [traceroute.Monitor] and raw mtr
// lines are aggregated into a single report. Resolver errors on stderr are
// reported with one [UnresolvedSentinel] event after all other output.
//
//	s, err := r.Run(ctx, runner.Request{Kind: diag.Mtr4, Target: "example.net"})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	for ev := range s.Events() {
//		fmt.Print(ev.Line())
//	}
package runner
