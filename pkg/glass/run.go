// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package glass

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/telekom/lookingglass/internal/diag"
	"github.com/telekom/lookingglass/internal/logger"
	"github.com/telekom/lookingglass/internal/runner"
	"github.com/telekom/lookingglass/pkg/api"
	"github.com/telekom/lookingglass/pkg/config"
	"github.com/telekom/lookingglass/pkg/glass/metrics"
)

const shutdownTimeout = time.Second * 90

// Glass is the looking glass agent. It serves diagnostic runs over its API.
type Glass struct {
	// config is the startup configuration of the looking glass
	config *config.Config
	// kinds are the enabled diagnostic kinds
	kinds []diag.Kind
	// api is the looking glass's API
	api api.API
	// runner starts the diagnostic runs
	runner runner.Runner
	// metrics is used to collect metrics
	metrics metrics.Provider
	// cErr is used to handle non-recoverable errors of the components
	cErr chan error
	// cDone is used to signal that the looking glass was shut down
	cDone chan struct{}
	// shutOnce is used to ensure that the shutdown function is only called once
	shutOnce sync.Once
}

// Option configures a [Glass].
type Option func(*Glass)

// WithRunner replaces the runner of the diagnostic runs
func WithRunner(r runner.Runner) Option {
	return func(g *Glass) {
		g.runner = r
	}
}

// New creates a new looking glass from a given config
func New(cfg *config.Config, opts ...Option) *Glass {
	g := &Glass{
		config:   cfg,
		kinds:    cfg.EnabledKinds(),
		api:      api.New(cfg.Api),
		runner:   runner.NewRunner(cfg.Diagnostics),
		metrics:  metrics.New(cfg.Telemetry),
		cErr:     make(chan error, 1),
		cDone:    make(chan struct{}, 1),
		shutOnce: sync.Once{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run starts the looking glass. It blocks until the looking glass is shut down.
func (g *Glass) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	log := logger.FromContext(ctx)
	defer cancel()

	err := g.metrics.InitTracing(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err = g.registerCollectors(); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	if err = g.api.RegisterRoutes(ctx, g.routes()...); err != nil {
		log.ErrorContext(ctx, "Error while registering routes", "error", err)
		return fmt.Errorf("failed to register routes: %w", err)
	}

	log.InfoContext(ctx, "Starting looking glass", "name", g.config.Name, "methods", g.kinds)
	go func() {
		g.cErr <- g.api.Run(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			g.shutdown(ctx)
		case err := <-g.cErr:
			if err != nil {
				log.Error("Non-recoverable error in looking glass component", "error", err)
			}
			g.shutdown(ctx)
		case <-g.cDone:
			log.InfoContext(ctx, "Looking glass was shut down")
			return ErrFinalShutdown
		}
	}
}

// registerCollectors registers the runner and instance metrics
func (g *Glass) registerCollectors() error {
	registry := g.metrics.GetRegistry()
	for _, c := range g.runner.GetMetricCollectors() {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	return metrics.RegisterInstanceInfo(registry, metrics.InstanceInfo{
		Name:     g.config.Name,
		Location: g.config.Metadata.Location,
		IPv4:     g.config.Metadata.IPv4,
		IPv6:     g.config.Metadata.IPv6,
	})
}

// shutdown shuts down the looking glass and all managed components gracefully.
// Running diagnostics are terminated when their requests are canceled.
func (g *Glass) shutdown(ctx context.Context) {
	errC := ctx.Err()
	log := logger.FromContext(ctx)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	g.shutOnce.Do(func() {
		log.InfoContext(ctx, "Shutting down looking glass")
		var sErrs ErrShutdown
		sErrs.errAPI = g.api.Shutdown(ctx)
		sErrs.errMetrics = g.metrics.Shutdown(ctx)

		if sErrs.HasError() {
			log.ErrorContext(ctx, "Failed to shutdown gracefully", "contextError", errC, "error", sErrs)
		}

		// Signal that shutdown is complete
		g.cDone <- struct{}{}
	})
}
