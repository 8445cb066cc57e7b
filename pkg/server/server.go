// Package server exposes the pipeline over HTTP.
//
// # Routes
//
//	GET  /healthz              liveness probe
//	GET  /metrics              Prometheus metrics (when configured)
//	POST /v1/decompose         planar layers of a graph document
//	POST /v1/layout            orthogonal placement of a planar graph
//	POST /v1/boards            full analysis and layout of a .kicad_pcb body
//	GET  /v1/analyses/{id}     a stored analysis
//
// Errors are returned as JSON objects {"code", "message"} with the HTTP
// status derived from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/linkboard/pkg/observability"
	"github.com/matzehuels/linkboard/pkg/pipeline"
	"github.com/matzehuels/linkboard/pkg/store"
)

// DefaultMaxBodyBytes limits request bodies (boards and graph documents).
const DefaultMaxBodyBytes = 32 << 20

// Server handles API requests. Each request owns the graphs it builds, so
// one Server serves requests concurrently.
type Server struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Defaults are merged into the options of every request.
	Defaults pipeline.Options
	// Metrics, if set, is served on /metrics.
	Metrics http.Handler
	// TTL of stored records. Defaults to store.DefaultTTL.
	TTL          time.Duration
	MaxBodyBytes int64
}

// New returns a server with default limits.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		Runner:       runner,
		Store:        st,
		Logger:       logger,
		TTL:          store.DefaultTTL,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Handler returns the HTTP handler with all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/decompose", s.handleDecompose)
		r.Post("/layout", s.handleLayout)
		r.Post("/boards", s.handleBoard)
		r.Get("/analyses/{id}", s.handleGetAnalysis)
	})
	return r
}

// observe reports every request to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, dur)
		s.Logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", dur,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.MaxBodyBytes > 0 {
			if r.ContentLength > s.MaxBodyBytes {
				writeTooLarge(w)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, s.MaxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe serves s on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
