package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/xhfile/pkg/catalog"
	"github.com/ssargent/xhfile/pkg/logging"
)

// Server holds the API server state
type Server struct {
	store   TraceStore
	config  ServerConfig
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer creates a new API server
func NewServer(store TraceStore, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
		logger:  logging.Default(logger).With("component", "api"),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleListTraces lists catalog entries. The network, station, location,
// channel and path query parameters filter by exact match; limit caps the
// number of entries returned.
func (s *Server) handleListTraces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.Filter{
		Path:     q.Get("path"),
		Network:  q.Get("network"),
		Station:  q.Get("station"),
		Location: q.Get("location"),
		Channel:  q.Get("channel"),
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			sendError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.store.List(filter)
	s.metrics.RecordCatalogOperation("list", err == nil)
	if err != nil {
		s.logger.Error("list traces", "error", err)
		sendError(w, "Failed to list traces", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []*catalog.Entry{}
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	sendSuccess(w, TraceList{Count: len(entries), Traces: entries})
}

func (s *Server) handleGetTrace(w http.ResponseWriter, r *http.Request) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid trace id", http.StatusBadRequest)
		return
	}

	entry, err := s.store.Get(id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		s.metrics.RecordCatalogOperation("get", true)
		sendError(w, "Trace not found", http.StatusNotFound)
	case err != nil:
		s.metrics.RecordCatalogOperation("get", false)
		s.logger.Error("get trace", "id", id, "error", err)
		sendError(w, "Failed to get trace", http.StatusInternalServerError)
	default:
		s.metrics.RecordCatalogOperation("get", true)
		sendSuccess(w, entry)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.Summarize()
	s.metrics.RecordCatalogOperation("stats", err == nil)
	if err != nil {
		s.logger.Error("summarize catalog", "error", err)
		sendError(w, "Failed to summarize catalog", http.StatusInternalServerError)
		return
	}
	s.metrics.UpdateCatalogStats(summary.Traces, summary.Samples)
	sendSuccess(w, summary)
}
