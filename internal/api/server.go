// Package api implements the HTTP surface of the digest service: health,
// Prometheus metrics and the admin endpoint that triggers a forced run.
// Handlers are methods on *Server.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nyashahama/bump-digest/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// AdminJWTSecret is the HS256 key admin bearer tokens are signed with.
	AdminJWTSecret string

	// Env is "production", "staging", or "development".
	Env string

	// Now overrides the clock for runs without an explicit "now". Nil means
	// time.Now.
	Now func() time.Time

	// RootContext is the process lifetime. A manual run stops when either it
	// or the request's context ends. Nil means context.Background.
	RootContext context.Context
}

// Server holds all shared dependencies.
type Server struct {
	// runner executes digest batches on demand.
	runner worker.DigestRunner

	// gatherer backs /metrics.
	gatherer prometheus.Gatherer

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(
	runner worker.DigestRunner,
	gatherer prometheus.Gatherer,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.RootContext == nil {
		cfg.RootContext = context.Background()
	}
	s := &Server{
		runner:   runner,
		gatherer: gatherer,
		cfg:      cfg,
		logger:   logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)

	// ── Health + metrics ──────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// ── Admin ─────────────────────────────────────────────────────────────────
	// No request timeout here: a run is bounded by DIGEST_RUN_TIMEOUT.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Post("/digests/run", s.handleRunDigests)
	})

	return r
}
