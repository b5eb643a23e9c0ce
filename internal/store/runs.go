package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jobrank-engine/internal/domain"
)

// RunSummary is one cached search run, without its job payload.
type RunSummary struct {
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`
	CVHash    string `json:"cv_hash"`
	Query     string `json:"query"`
	PrefsJSON string `json:"prefs"`
	StatsJSON string `json:"stats"`
	JobCount  int    `json:"job_count"`
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  created_at TEXT NOT NULL,
  cv_hash TEXT NOT NULL,
  query TEXT NOT NULL DEFAULT '',
  prefs_json TEXT NOT NULL,
  stats_json TEXT NOT NULL DEFAULT '{}',
  job_count INTEGER NOT NULL DEFAULT 0
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS run_jobs (
  run_id INTEGER NOT NULL REFERENCES runs(id),
  position INTEGER NOT NULL,
  payload TEXT NOT NULL,
  PRIMARY KEY (run_id, position)
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_runs_lookup ON runs(cv_hash, prefs_json, created_at);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// HashCV fingerprints CV text for cache lookups.
func HashCV(text string) string {
	h := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(h[:])
}

func SaveRun(ctx context.Context, db *sql.DB, cvHash, query, prefsJSON, statsJSON string, jobs []domain.JobPosting) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
INSERT INTO runs(created_at, cv_hash, query, prefs_json, stats_json, job_count)
VALUES (?, ?, ?, ?, ?, ?);`,
		time.Now().UTC().Format(time.RFC3339), cvHash, query, prefsJSON, statsJSON, len(jobs),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, j := range jobs {
		payload, err := json.Marshal(j)
		if err != nil {
			return 0, fmt.Errorf("marshal job %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO run_jobs(run_id, position, payload) VALUES (?, ?, ?);`,
			runID, i, string(payload),
		); err != nil {
			return 0, fmt.Errorf("insert run job %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// FindRecentRun returns the newest run matching the CV fingerprint and
// preferences, no older than maxAge. found=false when there is none.
func FindRecentRun(ctx context.Context, db *sql.DB, cvHash, prefsJSON string, maxAge time.Duration) (int64, bool, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format(time.RFC3339)

	var id int64
	err := db.QueryRowContext(ctx, `
SELECT id FROM runs
WHERE cv_hash = ? AND prefs_json = ? AND created_at >= ?
ORDER BY id DESC LIMIT 1;`,
		cvHash, prefsJSON, cutoff,
	).Scan(&id)

	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func GetRun(ctx context.Context, db *sql.DB, id int64) (RunSummary, bool, error) {
	var r RunSummary
	err := db.QueryRowContext(ctx, `
SELECT id, created_at, cv_hash, query, prefs_json, stats_json, job_count
FROM runs WHERE id = ? LIMIT 1;`,
		id,
	).Scan(&r.ID, &r.CreatedAt, &r.CVHash, &r.Query, &r.PrefsJSON, &r.StatsJSON, &r.JobCount)

	if err == sql.ErrNoRows {
		return RunSummary{}, false, nil
	}
	if err != nil {
		return RunSummary{}, false, err
	}
	return r, true, nil
}

func ListRuns(ctx context.Context, db *sql.DB, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.QueryContext(ctx, `
SELECT id, created_at, cv_hash, query, prefs_json, stats_json, job_count
FROM runs ORDER BY id DESC LIMIT ?;`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RunSummary, 0, limit)
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.CVHash, &r.Query, &r.PrefsJSON, &r.StatsJSON, &r.JobCount); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func RunJobs(ctx context.Context, db *sql.DB, runID int64) ([]domain.JobPosting, error) {
	rows, err := db.QueryContext(ctx, `
SELECT payload FROM run_jobs WHERE run_id = ? ORDER BY position;`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.JobPosting
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var j domain.JobPosting
		if err := json.Unmarshal([]byte(payload), &j); err != nil {
			return nil, fmt.Errorf("decode run job: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
