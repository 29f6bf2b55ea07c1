// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package framework

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/telekom/lookingglass/pkg/config"
	"github.com/telekom/lookingglass/pkg/glass"
)

var _ Runner = (*E2E)(nil)

// Runner is a component that runs until its context is done.
type Runner interface {
	Run(ctx context.Context) error
}

// E2E is an end-to-end test of a looking glass.
type E2E struct {
	t      *testing.T
	config config.Config
	agent  Runner
	client *http.Client

	running int32
}

// New creates an end-to-end test of a looking glass with the given config.
func New(t *testing.T, cfg config.Config, opts ...glass.Option) *E2E {
	t.Helper()
	return &E2E{
		t:      t,
		config: cfg,
		agent:  glass.New(&cfg, opts...),
		client: http.DefaultClient,
	}
}

// WithAgent replaces the looking glass under test.
func (e *E2E) WithAgent(a Runner) *E2E {
	e.agent = a
	return e
}

// WithClient sets the client the requests of the test are sent with.
func (e *E2E) WithClient(c *http.Client) *E2E {
	e.client = c
	return e
}

// Run starts the looking glass. It blocks until ctx is done.
func (e *E2E) Run(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&e.running, 0, 1) {
		e.t.Fatal("E2E.Run must be called once")
	}
	return e.agent.Run(ctx)
}

// URL returns the url of the given path on the api of the looking glass.
func (e *E2E) URL(path string) string {
	host, port, err := net.SplitHostPort(e.config.Api.ListeningAddress)
	if err != nil {
		e.t.Fatalf("Invalid listening address %q: %v", e.config.Api.ListeningAddress, err)
	}
	if host == "" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + path
}

// AwaitStartup waits for the provided URL to be ready.
//
// Must be called after the e2e test started with [E2E.Run].
func (e *E2E) AwaitStartup(u string, failureTimeout time.Duration) *E2E {
	e.t.Helper()
	const backoff = 100 * time.Millisecond

	// Initial delay to allow the server to start.
	<-time.After(backoff)
	if !e.isRunning() {
		e.t.Fatal("E2E.AwaitStartup must be called after E2E.Run")
	}

	deadline := time.Now().Add(failureTimeout)
	for time.Now().Before(deadline) {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, u, http.NoBody)
		if err != nil {
			e.t.Fatalf("Failed to create request: %v", err)
		}

		resp, err := e.client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return e
			}
		}

		<-time.After(backoff)
	}

	e.t.Fatalf("%s did not become ready within %v", u, failureTimeout)
	return e
}

// isRunning returns true if the test is running.
func (e *E2E) isRunning() bool {
	return atomic.LoadInt32(&e.running) == 1
}
