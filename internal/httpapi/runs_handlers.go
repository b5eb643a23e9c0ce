package httpapi

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"jobrank-engine/internal/domain"
	"jobrank-engine/internal/store"
)

type RunsHandler struct {
	DB *sql.DB
}

func (h RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := store.ListRuns(r.Context(), h.DB, limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"runs": runs})
}

// GetByPath serves /runs/{id} and /runs/{id}/export.
func (h RunsHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/runs/")
	export := false
	if s, ok := strings.CutSuffix(rest, "/export"); ok {
		rest, export = s, true
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_run_id", "run id must be an integer")
		return
	}

	run, found, err := store.GetRun(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if !found {
		WriteError(w, r, http.StatusNotFound, "run_not_found", fmt.Sprintf("run %d not found", id))
		return
	}

	jobs, err := store.RunJobs(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	if export {
		writeRunCSV(w, id, jobs)
		return
	}

	writeJSON(w, map[string]any{"run": run, "jobs": jobs})
}

var exportHeader = []string{
	"Score", "Title", "Company", "Location",
	"Est £ (COL-adj)", "Confidence", "Posted", "Source", "URL",
}

func writeRunCSV(w http.ResponseWriter, runID int64, jobs []domain.JobPosting) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("jobrank_run_%d.csv", runID)))

	cw := csv.NewWriter(w)
	_ = cw.Write(exportHeader)

	for _, j := range jobs {
		var score, conf, est string
		if j.Scores != nil {
			score = strconv.FormatFloat(round3(j.Scores.Final), 'f', -1, 64)
		}
		if j.Comp != nil {
			conf = strconv.FormatFloat(j.Comp.Confidence, 'f', -1, 64)
			if j.Comp.AnnualGBP != nil {
				est = strconv.FormatFloat(math.Round(*j.Comp.AnnualGBP), 'f', 0, 64)
			}
		}
		_ = cw.Write([]string{
			score, j.Title, j.Company, j.Location,
			est, conf, j.Created, j.Source, j.RedirectURL,
		})
	}
	cw.Flush()
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
