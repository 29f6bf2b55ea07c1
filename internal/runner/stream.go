// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/telekom/lookingglass/internal/diag"
	"github.com/telekom/lookingglass/internal/logger"
	"github.com/telekom/lookingglass/internal/mtr"
	"github.com/telekom/lookingglass/internal/traceroute"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var _ Stream = (*stream)(nil)

type stream struct {
	ctx    context.Context
	cancel context.CancelFunc
	cmd    *exec.Cmd
	stdout io.Reader
	stderr io.Reader

	kind           diag.Kind
	opts           Options
	resolver       mtr.Resolver
	resolveTimeout time.Duration

	metrics *metrics
	span    trace.Span
	start   time.Time

	// stderrGroup runs the stderr reader
	stderrGroup errgroup.Group
	unresolved  atomic.Bool
	consumed    atomic.Bool

	mu      sync.Mutex
	outcome string

	closeOnce sync.Once
	closeErr  error
}

// Events returns the output of the run.
func (s *stream) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		if !s.consumed.CompareAndSwap(false, true) {
			return
		}
		defer func() { _ = s.Close() }()

		outcome := s.emit(yield)
		s.mu.Lock()
		s.outcome = outcome
		s.mu.Unlock()
	}
}

// emit reads the process output, yields its events and returns the
// outcome of the run.
func (s *stream) emit(yield func(Event) bool) string {
	ctx := s.ctx
	log := logger.FromContext(ctx)

	var (
		agg *mtr.Aggregator
		mon *traceroute.Monitor
	)
	switch {
	case s.kind.IsMtr():
		agg = mtr.NewAggregator(mtr.WithResolver(s.resolver), mtr.WithResolveTimeout(s.resolveTimeout))
	case s.kind.IsTraceroute():
		mon = traceroute.NewMonitor(s.opts.FailThreshold)
	}

	lr := newLineReader(s.stdout)
	cutoff := false
	for {
		line, ok := lr.Next()
		if !ok {
			break
		}
		switch {
		case agg != nil:
			agg.Update(ctx, line)
		case mon != nil:
			out, stop := mon.Observe(line)
			if !yield(Event{Type: EventLine, Text: out}) {
				return outcomeAborted
			}
			cutoff = stop
		default:
			if !yield(Event{Type: EventLine, Text: line}) {
				return outcomeAborted
			}
		}
		if cutoff {
			break
		}
	}

	if cutoff {
		log.InfoContext(ctx, "Traceroute target unreachable, stopping run", "threshold", mon.Threshold())
		s.span.AddEvent("traceroute.cutoff")
		s.cancel()
		if !yield(Event{Type: EventTimedOut, Text: traceroute.TimedOutMarker}) {
			return outcomeAborted
		}
	} else if err := lr.Err(); err != nil {
		log.WarnContext(ctx, "Failed to read process output", "error", err)
	}

	if agg != nil {
		report, err := agg.Render(s.opts.Format)
		if err != nil {
			log.ErrorContext(ctx, "Failed to render mtr report", "error", err)
		} else if !yield(Event{Type: EventReport, Text: report}) {
			return outcomeAborted
		}
	}

	if err := s.stderrGroup.Wait(); err != nil {
		log.WarnContext(ctx, "Failed to read process errors", "error", err)
	}
	if s.unresolved.Load() {
		log.InfoContext(ctx, "Target could not be resolved")
		s.span.AddEvent("target.unresolved")
		if !yield(Event{Type: EventUnresolved, Text: UnresolvedSentinel}) {
			return outcomeAborted
		}
		return outcomeUnresolved
	}

	switch {
	case cutoff:
		return outcomeCutoff
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		log.WarnContext(ctx, "Diagnostic run exceeded its timeout")
		return outcomeTimeout
	case ctx.Err() != nil:
		return outcomeAborted
	default:
		return outcomeCompleted
	}
}

// drainStderr reads stderr in the background until the process closes it,
// watching for resolver errors.
func (s *stream) drainStderr() {
	s.stderrGroup.Go(func() error {
		log := logger.FromContext(s.ctx)
		lr := newLineReader(s.stderr)
		for {
			line, ok := lr.Next()
			if !ok {
				break
			}
			if s.unresolved.Load() {
				continue
			}
			log.DebugContext(s.ctx, "Diagnostic process wrote to stderr", "line", line)
			if diag.Classify(s.kind, line) == diag.ResolutionFailure {
				s.unresolved.Store(true)
			}
		}
		if err := lr.Err(); err != nil {
			// keep the pipe empty so the process never blocks on it
			_, _ = io.Copy(io.Discard, s.stderr)
			return fmt.Errorf("failed to read stderr: %w", err)
		}
		return nil
	})
}

// Close terminates the process if needed and waits for it.
func (s *stream) Close() error {
	s.closeOnce.Do(func() {
		s.consumed.Store(true)
		log := logger.FromContext(s.ctx)

		s.cancel()
		_ = s.stderrGroup.Wait()
		err := s.cmd.Wait()
		switch {
		case err == nil, isExpectedWaitError(err):
			log.DebugContext(s.ctx, "Diagnostic process exited", "error", err)
		case errors.Is(err, exec.ErrWaitDelay):
			log.WarnContext(s.ctx, "Diagnostic process left its output open", "error", err)
		default:
			log.ErrorContext(s.ctx, "Failed to wait for diagnostic process", "error", err)
			s.closeErr = fmt.Errorf("failed to wait for diagnostic process: %w", err)
		}

		s.mu.Lock()
		outcome := s.outcome
		s.mu.Unlock()
		if outcome == "" {
			outcome = outcomeAborted
		}

		d := time.Since(s.start)
		s.metrics.finished(s.kind.String(), outcome, d)
		s.span.SetAttributes(attribute.String("run.outcome", outcome))
		s.span.End()
		log.InfoContext(s.ctx, "Diagnostic run finished", "outcome", outcome, "duration", d.String())
	})
	return s.closeErr
}
