package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nightsat/nightlights-agg/internal/domain"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// TableSource exposes the latest aggregated regional table, nil before the
// first pass.
type TableSource interface {
	Latest() *domain.RegionalTable
}

// Server exposes health, readiness, metrics, and regional table endpoints.
type Server struct {
	httpServer *http.Server
	tables     TableSource
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and the
// /v1 table routes.
func NewServer(addr string, ready ReadinessChecker, tables TableSource, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		tables: tables,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/table", s.handleTable)
	mux.HandleFunc("GET /v1/regions/{label}", s.handleRegion)

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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleTable(w http.ResponseWriter, _ *http.Request) {
	table := s.tables.Latest()
	if table == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "no aggregation pass has completed yet",
		})
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// regionResponse is a single column of the regional table.
type regionResponse struct {
	Label       string      `json:"label"`
	Timestamps  []time.Time `json:"timestamps"`
	Values      []float64   `json:"values"`
	GeneratedAt time.Time   `json:"generated_at"`
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	table := s.tables.Latest()
	if table == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "no aggregation pass has completed yet",
		})
		return
	}

	label := r.PathValue("label")
	series, ok := table.Series[label]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "unknown region " + label,
		})
		return
	}
	writeJSON(w, http.StatusOK, regionResponse{
		Label:       label,
		Timestamps:  table.Timestamps,
		Values:      series,
		GeneratedAt: table.GeneratedAt,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
