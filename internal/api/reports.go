package api

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/projscore/projscore/internal/ingestion"
	"github.com/projscore/projscore/pkg/scoring"
)

// maxBodyBytes bounds ingest request bodies after decompression.
const maxBodyBytes = 1 << 20

// handleIngest handles POST /api/v1/reports: scores the posted metrics,
// stores the report and returns it.
func (h *Handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	// Support gzip-compressed request bodies
	var body io.Reader = r.Body
	if r.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid gzip body: "+err.Error())
			return
		}
		defer gz.Close()
		body = gz
	}

	var req ingestion.IngestRequest
	if err := json.NewDecoder(io.LimitReader(body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.svc.Ingest(r.Context(), req)
	if err != nil {
		h.logger.Error("ingest failed", "project", req.Project, "error", err)
		writeScoringError(w, err)
		return
	}

	h.cache.Put(report.ID, report)
	writeReport(w, r, http.StatusCreated, report)
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.ListProjects(r.Context())
	if err != nil {
		h.logger.Error("list projects failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *Handler) handleListReports(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	summaries, err := h.svc.ListReports(r.Context(), name, limit)
	if err != nil {
		h.logger.Error("list reports failed", "project", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	if summaries == nil {
		summaries = []scoring.Summary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Check cache
	if report := h.cache.Get(id); report != nil {
		writeReport(w, r, http.StatusOK, report)
		return
	}

	report, err := h.svc.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, ingestion.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		h.logger.Error("get report failed", "report_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	h.cache.Put(id, report)
	writeReport(w, r, http.StatusOK, report)
}
