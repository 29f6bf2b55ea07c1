// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/telekom/lookingglass/internal/logger"
)

const (
	// RequestIDHeader carries the id of a request in requests and responses
	RequestIDHeader = "X-Request-ID"

	readHeaderTimeout = 5 * time.Second
	// corsMaxAge is the time in seconds browsers may cache a preflight response
	corsMaxAge = 86400
)

//go:generate go tool moq -out api_moq.go . API
type API interface {
	// Run serves the API until the context is done or the server is shut down
	Run(ctx context.Context) error
	// Shutdown gracefully shuts down the server
	Shutdown(ctx context.Context) error
	// RegisterRoutes registers the routes on the server
	RegisterRoutes(ctx context.Context, routes ...Route) error
}

// Route is a single endpoint of the API
type Route struct {
	Path    string
	Method  string
	Handler http.HandlerFunc
}

type api struct {
	server *http.Server
	router chi.Router
	tls    TLSConfig
}

// New creates a new api server
func New(cfg Config) API {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		requestID,
		cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins(cfg.AllowedOrigins),
			AllowedMethods: []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "Accept"},
			ExposedHeaders: []string{RequestIDHeader},
			MaxAge:         corsMaxAge,
		}),
	)

	return &api{
		server: &http.Server{
			Addr:              cfg.ListeningAddress,
			Handler:           r,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		router: r,
		tls:    cfg.Tls,
	}
}

// Run serves the api. It blocks until the server stops or ctx is done.
func (a *api) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	cErr := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "Serving api", "address", a.server.Addr, "tls", a.tls.Enabled)
		var err error
		if a.tls.Enabled {
			err = a.server.ListenAndServeTLS(a.tls.CertPath, a.tls.KeyPath)
		} else {
			err = a.server.ListenAndServe()
		}
		cErr <- err
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("failed serving api: %w", ctx.Err())
	case err := <-cErr:
		if errors.Is(err, http.ErrServerClosed) {
			log.InfoContext(ctx, "Api server closed")
			return nil
		}
		log.ErrorContext(ctx, "Failed to serve api", "error", err)
		return errors.Join(ErrServeAPI, err)
	}
}

// Shutdown gracefully shuts down the api server.
// Running diagnostics are canceled once ctx is done.
func (a *api) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if err != nil {
		logger.FromContext(ctx).ErrorContext(ctx, "Failed to shutdown api server", "error", err)
		return fmt.Errorf("failed shutting down api: %w", err)
	}
	return nil
}

// RegisterRoutes registers the given routes. Every request handled by them
// carries the logger of ctx, enriched with the request id.
func (a *api) RegisterRoutes(ctx context.Context, routes ...Route) error {
	for _, rt := range routes {
		if !isSupportedMethod(rt.Method) {
			return fmt.Errorf("unsupported method %q for route %q", rt.Method, rt.Path)
		}
	}

	a.router.Group(func(r chi.Router) {
		r.Use(logger.Middleware(ctx), requestLogger)
		for _, rt := range routes {
			r.Method(rt.Method, rt.Path, rt.Handler)
		}
	})
	return nil
}

// requestID makes sure every request and response carries a request id
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// requestLogger adds the request id and route to the request logger
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx).With(
			"requestID", r.Header.Get(RequestIDHeader),
			"method", r.Method,
			"path", r.URL.Path,
		)
		next.ServeHTTP(w, r.WithContext(logger.IntoContext(ctx, log)))
	})
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func isSupportedMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodOptions:
		return true
	default:
		return false
	}
}
