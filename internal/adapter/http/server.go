package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voyagelog/weather-ingest/internal/domain"
)

// Importer runs historical weather uploads. Implemented by ingest.Ingestor.
type Importer interface {
	IngestSingleLocation(ctx context.Context, locationID int64, records []domain.RawRecord) (*domain.IngestionReport, error)
	IngestMultiLocation(ctx context.Context, userID int64, records []domain.RawRecord) (*domain.IngestionReport, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the import endpoints plus health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	importer   Importer
	locations  domain.LocationStore
	samples    domain.SampleStore
	logger     *slog.Logger
}

// NewServer creates the HTTP surface of the ingestion service.
func NewServer(addr string, importer Importer, locations domain.LocationStore, samples domain.SampleStore, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		importer:  importer,
		locations: locations,
		samples:   samples,
		logger:    logger,
	}

	mux.HandleFunc("POST /api/locations/{id}/weather/import", s.handleImportSingle)
	mux.HandleFunc("POST /api/users/{id}/weather/import", s.handleImportMulti)
	mux.HandleFunc("GET /api/locations/{id}/weather/stats", s.handleStats)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
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

// handleImportSingle ingests a JSON array of raw records against one
// location. Per-record problems land in the report, not the status code:
// the response is 200 even when every record failed.
func (s *Server) handleImportSingle(w http.ResponseWriter, r *http.Request) {
	locationID, ok := pathID(w, r)
	if !ok {
		return
	}
	records, ok := decodeRecords(w, r)
	if !ok {
		return
	}

	report, err := s.importer.IngestSingleLocation(r.Context(), locationID, records)
	if err != nil {
		s.writeImportError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleImportMulti ingests a JSON array of raw records for a user,
// resolving each record's location.
func (s *Server) handleImportMulti(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}
	records, ok := decodeRecords(w, r)
	if !ok {
		return
	}

	report, err := s.importer.IngestMultiLocation(r.Context(), userID, records)
	if err != nil {
		s.writeImportError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleStats returns journal statistics for one location's samples,
// optionally restricted to a period via start_date/end_date query
// parameters.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	locationID, ok := pathID(w, r)
	if !ok {
		return
	}

	loc, err := s.locations.FindByID(r.Context(), locationID)
	if err != nil {
		s.logger.Error("location lookup failed", "location_id", locationID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage failure"})
		return
	}
	if loc == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "location not found"})
		return
	}

	var samples []domain.WeatherSample
	startStr, endStr := r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date")
	if startStr != "" || endStr != "" {
		start, okS := parseDate(startStr)
		end, okE := parseDate(endStr)
		if !okS || !okE {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "start_date and end_date must both be set, as YYYY-MM-DD or RFC 3339",
			})
			return
		}
		samples, err = s.samples.ListRange(r.Context(), locationID, start, end)
	} else {
		samples, err = s.samples.ListByLocation(r.Context(), locationID)
	}
	if err != nil {
		s.logger.Error("sample listing failed", "location_id", locationID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage failure"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"location": loc,
		"stats":    domain.Summarize(samples),
	})
}

func (s *Server) writeImportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrLocationNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "location not found"})
	default:
		s.logger.Error("import failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "import failed"})
	}
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

// pathID parses the {id} path segment, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// decodeRecords reads the request body as a JSON array of objects, writing
// a 400 on any other shape.
func decodeRecords(w http.ResponseWriter, r *http.Request) ([]domain.RawRecord, bool) {
	var records []domain.RawRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "request body must be a JSON array of objects",
		})
		return nil, false
	}
	return records, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
