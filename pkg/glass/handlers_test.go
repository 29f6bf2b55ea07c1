// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package glass

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"slices"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/lookingglass/internal/diag"
	"github.com/telekom/lookingglass/internal/mtr"
	"github.com/telekom/lookingglass/internal/runner"
	"github.com/telekom/lookingglass/pkg/api"
	"github.com/telekom/lookingglass/pkg/config"
)

func newTestGlass(t *testing.T, r runner.Runner, methods ...string) *Glass {
	t.Helper()
	cfg := &config.Config{
		Name: "lg.example.net",
		Metadata: config.Metadata{
			Location: "DE",
			IPv4:     "192.0.2.10",
			IPv6:     "2001:db8::10",
		},
		Methods: methods,
		Api:     api.Config{ListeningAddress: "127.0.0.1:0"},
	}
	return New(cfg, WithRunner(r))
}

func streamOf(events ...runner.Event) *runner.StreamMock {
	return &runner.StreamMock{
		EventsFunc: func() iter.Seq[runner.Event] { return slices.Values(events) },
		CloseFunc:  func() error { return nil },
	}
}

func TestGlass_handleDiagnose(t *testing.T) {
	pingOutput := []runner.Event{
		{Type: runner.EventLine, Text: "PING 192.0.2.1 (192.0.2.1) 56(84) bytes of data."},
		{Type: runner.EventLine, Text: "64 bytes from 192.0.2.1: icmp_seq=1 ttl=64 time=0.045 ms"},
	}

	tests := []struct {
		name       string
		methods    []string
		body       string
		stream     *runner.StreamMock
		runErr     error
		wantStatus int
		wantReq    *runner.Request
		wantBody   string
	}{
		{
			name:       "ping",
			body:       `{"target":"192.0.2.1","method":"ping"}`,
			stream:     streamOf(pingOutput...),
			wantStatus: http.StatusOK,
			wantReq:    &runner.Request{Kind: diag.Ping4, Target: "192.0.2.1"},
			wantBody: "PING 192.0.2.1 (192.0.2.1) 56(84) bytes of data.\n" +
				"64 bytes from 192.0.2.1: icmp_seq=1 ttl=64 time=0.045 ms\n",
		},
		{
			name:       "mtr6 with options",
			body:       `{"target":" example.net ","method":"mtr6","format":"json"}`,
			stream:     streamOf(runner.Event{Type: runner.EventReport, Text: "[]\n"}),
			wantStatus: http.StatusOK,
			wantReq:    &runner.Request{Kind: diag.Mtr6, Target: "example.net", Options: runner.Options{Format: mtr.FormatJSON}},
			wantBody:   "[]\n",
		},
		{
			name: "traceroute cut short",
			body: `{"target":"example.net","method":"traceroute","failThreshold":2}`,
			stream: streamOf(
				runner.Event{Type: runner.EventLine, Text: "  1  * * *"},
				runner.Event{Type: runner.EventLine, Text: "  2  * * *"},
				runner.Event{Type: runner.EventTimedOut, Text: "-- Traceroute timed out --"},
			),
			wantStatus: http.StatusOK,
			wantReq:    &runner.Request{Kind: diag.Traceroute4, Target: "example.net", Options: runner.Options{FailThreshold: 2}},
			wantBody:   "  1  * * *\n  2  * * *\n-- Traceroute timed out --\n",
		},
		{
			name:       "unresolved target",
			body:       `{"target":"nowhere.example","method":"ping6","count":2}`,
			stream:     streamOf(runner.Event{Type: runner.EventUnresolved, Text: runner.UnresolvedSentinel}),
			wantStatus: http.StatusOK,
			wantReq:    &runner.Request{Kind: diag.Ping6, Target: "nowhere.example", Options: runner.Options{Count: 2}},
			wantBody:   "Unauthorized request\n",
		},
		{
			name:       "invalid json",
			body:       `{"target":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing target",
			body:       `{"method":"ping"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing method",
			body:       `{"target":"192.0.2.1","method":"  "}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown method",
			body:       `{"target":"192.0.2.1","method":"whois"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "disabled method",
			methods:    []string{"ping"},
			body:       `{"target":"192.0.2.1","method":"mtr"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrong address family",
			body:       `{"target":"2001:db8::1","method":"traceroute"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid target",
			body:       `{"target":"example.net; reboot","method":"ping"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "count too large",
			body:       `{"target":"192.0.2.1","method":"ping","count":1000}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown format",
			body:       `{"target":"192.0.2.1","method":"mtr","format":"xml"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "body too large",
			body:       `{"target":"` + strings.Repeat("a", maxRequestSize) + `","method":"ping"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "spawn error",
			body:       `{"target":"192.0.2.1","method":"ping"}`,
			runErr:     &runner.SpawnError{Kind: diag.Ping4, Path: "ping", Err: exec.ErrNotFound},
			wantStatus: http.StatusInternalServerError,
			wantReq:    &runner.Request{Kind: diag.Ping4, Target: "192.0.2.1"},
		},
		{
			name:       "rejected by runner",
			body:       `{"target":"192.0.2.1","method":"ping"}`,
			runErr:     runner.ErrEmptyTarget,
			wantStatus: http.StatusBadRequest,
			wantReq:    &runner.Request{Kind: diag.Ping4, Target: "192.0.2.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := &runner.RunnerMock{
				RunFunc: func(_ context.Context, _ runner.Request) (runner.Stream, error) {
					if tt.runErr != nil {
						return nil, tt.runErr
					}
					return tt.stream, nil
				},
			}
			g := newTestGlass(t, rm, tt.methods...)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, pathDiagnose, strings.NewReader(tt.body))
			g.handleDiagnose(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			calls := rm.RunCalls()
			if tt.wantReq == nil {
				assert.Empty(t, calls)
				return
			}
			require.Len(t, calls, 1)
			if diff := cmp.Diff(*tt.wantReq, calls[0].Req); diff != "" {
				t.Errorf("request mismatch (-want +got):\n%s", diff)
			}

			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
			assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
			assert.Equal(t, "0", rec.Header().Get("Expires"))
			assert.True(t, rec.Flushed)
			assert.Len(t, tt.stream.CloseCalls(), 1)
		})
	}
}

// failingWriter fails every write after the headers were sent.
// The recorder is a named field so neither io.StringWriter nor
// http.Flusher is promoted.
type failingWriter struct {
	rec *httptest.ResponseRecorder
}

func (f failingWriter) Header() http.Header {
	return f.rec.Header()
}

func (f failingWriter) WriteHeader(code int) {
	f.rec.WriteHeader(code)
}

func (f failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestGlass_handleDiagnose_clientGone(t *testing.T) {
	var yielded int
	stream := &runner.StreamMock{
		EventsFunc: func() iter.Seq[runner.Event] {
			return func(yield func(runner.Event) bool) {
				for range 10 {
					yielded++
					if !yield(runner.Event{Type: runner.EventLine, Text: "line"}) {
						return
					}
				}
			}
		},
		CloseFunc: func() error { return nil },
	}
	rm := &runner.RunnerMock{
		RunFunc: func(context.Context, runner.Request) (runner.Stream, error) { return stream, nil },
	}
	g := newTestGlass(t, rm)

	req := httptest.NewRequest(http.MethodPost, pathDiagnose, strings.NewReader(`{"target":"192.0.2.1","method":"ping"}`))
	rec := httptest.NewRecorder()
	g.handleDiagnose(failingWriter{rec: rec}, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, 1, yielded)
	assert.Len(t, stream.CloseCalls(), 1)
}

func TestGlass_handleInfo(t *testing.T) {
	g := newTestGlass(t, &runner.RunnerMock{}, "ping", "mtr6")

	rec := httptest.NewRecorder()
	g.handleInfo(rec, httptest.NewRequest(http.MethodGet, pathInfo, http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got info
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	want := info{
		Name:     "lg.example.net",
		Location: "DE",
		IPv4:     "192.0.2.10",
		IPv6:     "2001:db8::10",
		Methods:  []string{"ping", "ping6", "mtr6"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestGlass_handleMetrics(t *testing.T) {
	g := newTestGlass(t, &runner.RunnerMock{
		GetMetricCollectorsFunc: func() []prometheus.Collector {
			return []prometheus.Collector{prometheus.NewCounter(prometheus.CounterOpts{Name: "lookingglass_test_total"})}
		},
	})
	require.NoError(t, g.registerCollectors())

	rec := httptest.NewRecorder()
	g.handleMetrics(rec, httptest.NewRequest(http.MethodGet, pathMetrics, http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "lookingglass_test_total 0")
	assert.Contains(t, body, `lookingglass_instance_info{instance_name="lg.example.net",ipv4="192.0.2.10",ipv6="2001:db8::10",location="DE"} 1`)
}

func TestGlass_Openapi(t *testing.T) {
	g := newTestGlass(t, &runner.RunnerMock{}, "traceroute")

	doc, err := g.Openapi()
	require.NoError(t, err)
	require.NoError(t, doc.Validate(t.Context()))

	op := doc.Paths.Find(pathDiagnose).Post
	require.NotNil(t, op)
	schema := op.RequestBody.Value.Content.Get("application/json").Schema.Value
	assert.ElementsMatch(t, []string{"target", "method"}, schema.Required)
	assert.Equal(t, []any{"traceroute", "traceroute6"}, schema.Properties["method"].Value.Enum)
	assert.NotNil(t, doc.Paths.Find(pathInfo).Get)
}

func TestGlass_handleOpenapi(t *testing.T) {
	tests := []struct {
		name            string
		accept          string
		wantContentType string
	}{
		{name: "yaml by default", wantContentType: "text/yaml"},
		{name: "json on request", accept: "application/json", wantContentType: "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGlass(t, &runner.RunnerMock{})

			req := httptest.NewRequest(http.MethodGet, pathOpenapi, http.NoBody)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rec := httptest.NewRecorder()
			g.handleOpenapi(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantContentType, rec.Header().Get("Content-Type"))

			doc, err := openapi3.NewLoader().LoadFromData(rec.Body.Bytes())
			require.NoError(t, err)
			require.NoError(t, doc.Validate(t.Context()))
			assert.NotNil(t, doc.Paths.Find(pathDiagnose))
		})
	}
}

func TestGlass_routes(t *testing.T) {
	g := newTestGlass(t, &runner.RunnerMock{})

	var got []string
	for _, r := range g.routes() {
		got = append(got, r.Method+" "+r.Path)
	}
	want := []string{"POST /api/v1/diagnose", "GET /api/v1/info", "GET /openapi", "GET /metrics"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
}
