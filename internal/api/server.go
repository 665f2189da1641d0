// Package api provides the REST API server for the data service.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	v1 "github.com/itk-os2display/aarhus-data-bundle/internal/api/v1"
	"github.com/itk-os2display/aarhus-data-bundle/internal/processor"
	"github.com/itk-os2display/aarhus-data-bundle/internal/sources"
)

// Deps carries the collaborators the API surface exposes.
type Deps struct {
	Registry  *sources.Registry
	Custom    sources.Handler
	Processor *processor.BatchProcessor

	// Readiness reports whether the service can serve requests. A nil
	// checker means always ready.
	Readiness func(ctx context.Context) error

	// MetricsHandler serves the metrics endpoint when set.
	MetricsHandler http.Handler
}

// ServerOption configures the API server
type ServerOption func(*serverConfig)

// serverConfig holds the server configuration
type serverConfig struct {
	middlewares []func(http.Handler) http.Handler
}

// WithMiddlewares adds middleware to the server
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// NewServer creates and configures the HTTP router with the given dependencies and options
func NewServer(deps Deps, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{
		middlewares: []func(http.Handler) http.Handler{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()

	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	// Health check routes live at root
	r.Mount("/", v1.HealthRouter(deps.Readiness))

	r.Mount("/api/v1", v1.Router(deps.Registry, deps.Custom, deps.Processor))

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	return r
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
