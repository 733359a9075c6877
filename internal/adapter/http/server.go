package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/solar-lookup/internal/domain"
	"github.com/couchcryptid/solar-lookup/internal/lookup"
)

// LookupService is the search core served by the API routes.
type LookupService interface {
	sharedobs.ReadinessChecker
	Search(ctx context.Context, query string) lookup.Result
	Record(key string) (domain.InstallationRecord, bool)
	Recalculate(record domain.InstallationRecord, p lookup.Params) lookup.View
}

// Server exposes the lookup API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        LookupService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /api/search, /api/recalculate,
// /healthz, /readyz, and /metrics routes. API responses are gzip-compressed
// when the client accepts it.
func NewServer(addr string, svc LookupService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	api := http.NewServeMux()
	api.HandleFunc("GET /api/search", s.handleSearch)
	api.HandleFunc("POST /api/recalculate", s.handleRecalculate)

	mux.Handle("/api/", gziphandler.GzipHandler(api))
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(svc))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
