package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/projscore/projscore/pkg/fuzzy"
	"github.com/projscore/projscore/pkg/metrics"
	"github.com/projscore/projscore/pkg/scoring"
	"github.com/projscore/projscore/pkg/surface"
)

// evaluateRequest is the JSON body for POST /api/v1/evaluate. Pointers tell
// a missing input apart from zero.
type evaluateRequest struct {
	CleanCode     *float64 `json:"clean_code"`
	Functionality *float64 `json:"functionality"`
	Inheritance   *float64 `json:"inheritance"`
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.CleanCode == nil || req.Functionality == nil || req.Inheritance == nil {
		writeError(w, http.StatusBadRequest, "clean_code, functionality and inheritance are required")
		return
	}

	report, err := h.svc.Evaluate(metrics.Inputs{
		CleanCode:     *req.CleanCode,
		Functionality: *req.Functionality,
		Inheritance:   *req.Inheritance,
	})
	if err != nil {
		writeScoringError(w, err)
		return
	}

	writeReport(w, r, http.StatusOK, report)
}

func (h *Handler) handleRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fuzzy.Describe(h.svc.Scorer().Engine()))
}

// writeScoringError maps inference errors to HTTP statuses.
func writeScoringError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fuzzy.ErrNoRuleFired):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, fuzzy.ErrMissingVariable):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeReport renders a report as JSON, or as Markdown with ?format=markdown.
func writeReport(w http.ResponseWriter, r *http.Request, status int, report *scoring.Report) {
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(surface.BuildSummary(report)))
		return
	}
	writeJSON(w, status, report)
}
