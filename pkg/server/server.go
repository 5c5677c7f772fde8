// Package server exposes the epicflow pipeline over HTTP.
//
// The API is a thin JSON layer over [pipeline.Runner]: every handler decodes
// a request, delegates to the runner and encodes the result. Errors carry
// the code of the underlying [errs.Error] so clients can branch on it:
//
//	{"error": {"code": "INVALID_EPIC", "message": "...", "request_id": "..."}}
//
// # Routes
//
//	GET  /healthz                                  liveness and build version
//	POST /v1/layout                                epic (inline or GitHub ref) → layout JSON
//	POST /v1/render/{format}                       epic or layout → svg, png, pdf, dot, json
//	GET  /v1/snapshots/{id}                        saved layout by ID
//	GET  /v1/epics/{owner}/{repo}/{number}/latest  newest saved layout of an epic
//
// Snapshot routes are only mounted when a [storage.Store] is configured.
// File sources are rejected: the API never reads the server's filesystem.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/epicflow/pkg/pipeline"
	"github.com/matzehuels/epicflow/pkg/storage"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 4 << 20

// DefaultTimeout bounds a single request, including fetching from GitHub.
const DefaultTimeout = 60 * time.Second

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	store   storage.Store
	logger  *log.Logger
	maxBody int64
	timeout time.Duration

	// latest drops snapshot saves of layouts that a newer request for the
	// same epic has superseded.
	latest pipeline.Latest
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the snapshot routes and the "save" flag of /v1/layout.
func WithStore(s storage.Store) Option {
	return func(srv *Server) { srv.store = s }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(srv *Server) {
		if l != nil {
			srv.logger = l
		}
	}
}

// WithMaxBodyBytes overrides [DefaultMaxBodyBytes]. Non-positive values are ignored.
func WithMaxBodyBytes(n int64) Option {
	return func(srv *Server) {
		if n > 0 {
			srv.maxBody = n
		}
	}
}

// WithTimeout overrides [DefaultTimeout]. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(srv *Server) {
		if d > 0 {
			srv.timeout = d
		}
	}
}

// New creates a server that runs requests on runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		maxBody: DefaultMaxBodyBytes,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router with all middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(s.limitBody)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, methodNotAllowed(r.Method, r.URL.Path))
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)
		if s.store != nil {
			r.Get("/snapshots/{id}", s.handleSnapshot)
			r.Get("/epics/{owner}/{repo}/{number}/latest", s.handleLatest)
		}
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, giving in-flight requests up to five seconds to finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
