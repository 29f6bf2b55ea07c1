// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package glass

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/telekom/lookingglass/internal/diag"
	"github.com/telekom/lookingglass/internal/logger"
	"github.com/telekom/lookingglass/internal/mtr"
	"github.com/telekom/lookingglass/internal/runner"
	"github.com/telekom/lookingglass/pkg/api"
)

const (
	pathDiagnose = "/api/v1/diagnose"
	pathInfo     = "/api/v1/info"
	pathOpenapi  = "/openapi"
	pathMetrics  = "/metrics"

	// maxRequestSize bounds the body of a diagnose request
	maxRequestSize = 4 << 10
)

// diagnoseRequest is the body of a diagnose request
type diagnoseRequest struct {
	// Target is the IP address or hostname to run the diagnostic against
	Target string `json:"target"`
	// Method is the diagnostic method, e.g. "ping" or "mtr6"
	Method string `json:"method"`
	// Count is the number of echo requests of a ping run
	Count int `json:"count,omitempty"`
	// FailThreshold is the number of consecutive unanswered traceroute hops
	// after which the run is cut short
	FailThreshold int `json:"failThreshold,omitempty"`
	// Format is the format of an mtr report: text, json or yaml
	Format mtr.Format `json:"format,omitempty"`
}

// info describes the looking glass
type info struct {
	Name     string   `json:"name"`
	Location string   `json:"location"`
	IPv4     string   `json:"ipv4"`
	IPv6     string   `json:"ipv6"`
	Methods  []string `json:"methods"`
}

func (g *Glass) routes() []api.Route {
	return []api.Route{
		{Path: pathDiagnose, Method: http.MethodPost, Handler: g.handleDiagnose},
		{Path: pathInfo, Method: http.MethodGet, Handler: g.handleInfo},
		{Path: pathOpenapi, Method: http.MethodGet, Handler: g.handleOpenapi},
		{Path: pathMetrics, Method: http.MethodGet, Handler: g.handleMetrics},
	}
}

// handleDiagnose validates the request, runs the diagnostic and streams
// its output as plain text. Every event is flushed as soon as it arrives.
func (g *Glass) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	req, err := g.parseDiagnoseRequest(w, r)
	if err != nil {
		log.DebugContext(ctx, "Rejected diagnose request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stream, err := g.runner.Run(ctx, req)
	if err != nil {
		var sErr *runner.SpawnError
		if errors.As(err, &sErr) {
			log.ErrorContext(ctx, "Failed to run diagnostic", "error", err)
			http.Error(w, "failed to run diagnostic", http.StatusInternalServerError)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer func() {
		if cErr := stream.Close(); cErr != nil {
			log.WarnContext(ctx, "Failed to close diagnostic stream", "error", cErr)
		}
	}()

	h := w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	if fErr := rc.Flush(); fErr != nil {
		log.DebugContext(ctx, "Response does not support flushing", "error", fErr)
	}
	for ev := range stream.Events() {
		if _, err = io.WriteString(w, ev.Line()); err != nil {
			log.InfoContext(ctx, "Client went away, stopping diagnostic", "error", err)
			return
		}
		_ = rc.Flush()
	}
}

// parseDiagnoseRequest decodes and validates the body of a diagnose request
func (g *Glass) parseDiagnoseRequest(w http.ResponseWriter, r *http.Request) (runner.Request, error) {
	var body diagnoseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize))
	if err := dec.Decode(&body); err != nil {
		return runner.Request{}, fmt.Errorf("invalid request body: %w", err)
	}

	body.Target = strings.TrimSpace(body.Target)
	body.Method = strings.TrimSpace(body.Method)
	if body.Target == "" || body.Method == "" {
		return runner.Request{}, errors.New("missing required parameters (target, method)")
	}

	kind, err := diag.ParseKind(body.Method)
	if err != nil {
		return runner.Request{}, errors.New("unsupported diagnostic method")
	}
	if !slices.Contains(g.kinds, kind) {
		return runner.Request{}, fmt.Errorf("diagnostic method %q is disabled", kind)
	}
	if err = diag.ValidateTarget(kind, body.Target); err != nil {
		return runner.Request{}, err
	}

	opts := runner.Options{
		Count:         body.Count,
		FailThreshold: body.FailThreshold,
		Format:        body.Format,
	}
	if err = opts.Validate(); err != nil {
		return runner.Request{}, err
	}
	return runner.Request{Kind: kind, Target: body.Target, Options: opts}, nil
}

// handleInfo returns the location and enabled methods of the looking glass
func (g *Glass) handleInfo(w http.ResponseWriter, r *http.Request) {
	i := info{
		Name:     g.config.Name,
		Location: g.config.Metadata.Location,
		IPv4:     g.config.Metadata.IPv4,
		IPv6:     g.config.Metadata.IPv6,
		Methods:  make([]string, 0, len(g.kinds)),
	}
	for _, k := range g.kinds {
		i.Methods = append(i.Methods, k.String())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(i); err != nil {
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode info", "error", err)
	}
}

// handleMetrics serves the prometheus metrics of the looking glass
func (g *Glass) handleMetrics(w http.ResponseWriter, r *http.Request) {
	registry := g.metrics.GetRegistry()
	promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}).ServeHTTP(w, r)
}
