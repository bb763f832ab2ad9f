// Package api implements the hosted projscore REST API.
// It provides evaluate, ingest and read endpoints backed by the ingestion
// service.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/projscore/projscore/internal/ingestion"
)

// Handler is the top-level API handler for the hosted projscore service.
type Handler struct {
	svc    *ingestion.Service
	cache  *ReportCache
	logger *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc *ingestion.Service, cache *ReportCache, logger *slog.Logger) *Handler {
	if cache == nil {
		cache = NewReportCacheFromEnv()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:    svc,
		cache:  cache,
		logger: logger,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Write endpoints (auth-protected)
	mux.HandleFunc("POST /api/v1/evaluate", h.handleEvaluate)
	mux.HandleFunc("POST /api/v1/reports", h.handleIngest)

	// Read endpoints
	mux.HandleFunc("GET /api/v1/rules", h.handleRules)
	mux.HandleFunc("GET /api/projects", h.handleListProjects)
	mux.HandleFunc("GET /api/projects/{name}/reports", h.handleListReports)
	mux.HandleFunc("GET /api/reports/{id}", h.handleGetReport)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
