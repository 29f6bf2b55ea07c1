// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/lookingglass/internal/diag"
	"github.com/telekom/lookingglass/internal/logger"
	"github.com/telekom/lookingglass/internal/mtr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// waitDelay bounds how long pipes are kept open after the process was
// killed, e.g. when a descendant outside of its process group holds them.
const waitDelay = 5 * time.Second

var _ Runner = (*runner)(nil)

// Runner starts diagnostic runs.
//
//go:generate go tool moq -out runner_moq.go . Runner Stream
type Runner interface {
	// Run starts the diagnostic process of the request and returns its
	// output stream. A [*SpawnError] is returned if the process could not
	// be started. The stream must be closed by the caller.
	Run(ctx context.Context, req Request) (Stream, error)
	// GetMetricCollectors returns the prometheus collectors of the runner
	GetMetricCollectors() []prometheus.Collector
}

// Stream is the output of one diagnostic run.
type Stream interface {
	// Events returns the output of the run. The sequence can be iterated
	// once; stopping early terminates the process.
	Events() iter.Seq[Event]
	// Close terminates the process if it is still running and releases
	// all of its resources. It is safe to call Close more than once.
	Close() error
}

// Request describes a single diagnostic run.
type Request struct {
	Kind    diag.Kind
	Target  string
	Options Options
}

// commandFunc creates the command of a run. The returned command must be
// bound to ctx.
type commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

type runner struct {
	config   Config
	command  commandFunc
	resolver mtr.Resolver
	metrics  *metrics
	tracer   trace.Tracer
}

// Option configures a [Runner].
type Option func(*runner)

// WithResolver sets the resolver used for reverse lookups of mtr hops.
// A nil resolver disables lookups.
func WithResolver(r mtr.Resolver) Option {
	return func(rn *runner) {
		rn.resolver = r
	}
}

// NewRunner creates a runner. Unset fields of cfg fall back to their defaults.
func NewRunner(cfg Config, opts ...Option) Runner {
	r := &runner{
		config:   cfg.withDefaults(),
		command:  exec.CommandContext,
		resolver: mtr.NewResolver(),
		metrics:  newMetrics(),
		tracer:   otel.Tracer("lookingglass.runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetMetricCollectors returns the prometheus collectors of the runner
func (r *runner) GetMetricCollectors() []prometheus.Collector {
	return r.metrics.GetCollectors()
}

// Run starts the diagnostic process of the request.
func (r *runner) Run(ctx context.Context, req Request) (Stream, error) {
	if !req.Kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if err := req.Options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	target := SanitizeTarget(req.Target)
	if target == "" {
		return nil, ErrEmptyTarget
	}
	if strings.HasPrefix(target, "-") {
		return nil, ErrOptionTarget
	}
	opts := req.Options.resolve(r.config)
	opts.Format, _ = mtr.ParseFormat(string(opts.Format))

	runID := uuid.NewString()
	log := logger.FromContext(ctx).With("run", runID, "method", req.Kind.String(), "target", target)
	ctx = logger.IntoContext(ctx, log)
	ctx, span := r.tracer.Start(ctx, "runner.run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("run.method", req.Kind.String()),
		attribute.String("run.target", target),
	))
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)

	path := r.config.Binary(req.Kind.Tool())
	cmd := r.command(ctx, path, commandArgs(req.Kind, opts, target)...)
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcessGroup(cmd) }
	cmd.WaitDelay = waitDelay

	fail := func(err error) (Stream, error) {
		cancel()
		log.ErrorContext(ctx, "Failed to start diagnostic process", "path", path, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to start diagnostic process")
		span.End()
		r.metrics.failed(req.Kind.String())
		return nil, &SpawnError{Kind: req.Kind, Path: path, Err: err}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fail(err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fail(err)
	}
	if err = cmd.Start(); err != nil {
		return fail(err)
	}
	log.DebugContext(ctx, "Started diagnostic process", "pid", cmd.Process.Pid, "args", cmd.Args)

	r.metrics.started()
	s := &stream{
		ctx:            ctx,
		cancel:         cancel,
		cmd:            cmd,
		stdout:         stdout,
		stderr:         stderr,
		kind:           req.Kind,
		opts:           opts,
		resolver:       r.resolver,
		resolveTimeout: r.config.ResolveTimeout,
		metrics:        r.metrics,
		span:           span,
		start:          time.Now(),
	}
	s.drainStderr()
	return s, nil
}

// isExpectedWaitError reports whether err is a normal way for a diagnostic
// process to end. Tools exit non-zero when a target does not answer and
// are killed on cancellation.
func isExpectedWaitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
