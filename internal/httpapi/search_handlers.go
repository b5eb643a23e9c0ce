package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"jobrank-engine/internal/comp"
	"jobrank-engine/internal/config"
	"jobrank-engine/internal/domain"
	"jobrank-engine/internal/events"
	"jobrank-engine/internal/pipeline"
	"jobrank-engine/internal/store"
)

// searchTimeout bounds a full fetch+rank cycle.
const searchTimeout = 90 * time.Second

type SearchHandler struct {
	DB            *sql.DB
	Hub           *events.Hub
	CfgVal        *atomic.Value // config.Config
	Tables        comp.Tables
	SearchAndRank func(ctx context.Context, cfg config.Config, tables comp.Tables, cvText string, prefs domain.Preferences) ([]domain.JobPosting, pipeline.Stats, error)
	CacheTTL      time.Duration
}

type searchRequest struct {
	CVText string             `json:"cv_text"`
	Prefs  domain.Preferences `json:"prefs"`
	Force  bool               `json:"force"`
}

type searchResponse struct {
	RunID  int64               `json:"run_id"`
	Cached bool                `json:"cached"`
	Stats  json.RawMessage     `json:"stats,omitempty"`
	Jobs   []domain.JobPosting `json:"jobs"`
}

func (h SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if strings.TrimSpace(req.CVText) == "" {
		WriteError(w, r, http.StatusBadRequest, "cv_required", "cv_text must not be empty")
		return
	}

	prefs := req.Prefs.Normalized()
	prefsJSON, err := json.Marshal(prefs)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	cvHash := store.HashCV(req.CVText)
	reqID := RequestIDFrom(r.Context())

	// Answer identical repeat searches from the run cache.
	if !req.Force && h.CacheTTL > 0 {
		runID, found, err := store.FindRecentRun(r.Context(), h.DB, cvHash, string(prefsJSON), h.CacheTTL)
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
			return
		}
		if found {
			jobs, err := store.RunJobs(r.Context(), h.DB, runID)
			if err != nil {
				WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
				return
			}
			run, _, err := store.GetRun(r.Context(), h.DB, runID)
			if err != nil {
				WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
				return
			}
			log.Printf("[search] cache hit run_id=%d query=%q", runID, prefs.Query)
			writeJSON(w, searchResponse{
				RunID:  runID,
				Cached: true,
				Stats:  json.RawMessage(run.StatsJSON),
				Jobs:   jobs,
			})
			return
		}
	}

	h.Hub.PublishEvent(reqID, events.TypeSearchStarted, map[string]any{
		"query":   prefs.Query,
		"country": prefs.Country,
	})

	ctx, cancel := context.WithTimeout(r.Context(), searchTimeout)
	defer cancel()

	cfg := h.CfgVal.Load().(config.Config)
	jobs, stats, err := h.SearchAndRank(ctx, cfg, h.Tables, req.CVText, prefs)
	if err != nil {
		h.Hub.PublishEvent(reqID, events.TypeSearchFailed, map[string]any{
			"query": prefs.Query,
			"error": err.Error(),
		})
		WriteError(w, r, http.StatusBadGateway, "search_failed", err.Error())
		return
	}

	statsJSON, _ := json.Marshal(stats)
	runID, err := store.SaveRun(r.Context(), h.DB, cvHash, prefs.Query, string(prefsJSON), string(statsJSON), jobs)
	if err != nil {
		// The search itself succeeded; log and serve the results anyway.
		log.Printf("[search] save run failed: %v", err)
	}

	h.Hub.PublishEvent(reqID, events.TypeSearchCompleted, map[string]any{
		"run_id": runID,
		"query":  prefs.Query,
		"jobs":   len(jobs),
	})

	writeJSON(w, searchResponse{
		RunID: runID,
		Stats: statsJSON,
		Jobs:  jobs,
	})
}
