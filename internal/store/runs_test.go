package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobrank-engine/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db
}

func sampleJobs() []domain.JobPosting {
	gbp := 52000.0
	return []domain.JobPosting{
		{
			Source:      "Adzuna",
			ID:          "1",
			Title:       "Data Analyst",
			Company:     "Acme",
			Location:    "London, UK",
			RedirectURL: "https://example.org/1",
			Comp:        &domain.CompEstimate{Currency: "GBP", AnnualGBP: &gbp, Confidence: 0.7, COLFactor: 1.0},
			Scores:      &domain.ScoreBreakdown{Final: 0.81},
		},
		{
			Source:      "Remotive",
			ID:          "2",
			Title:       "Analytics Engineer",
			RedirectURL: "https://example.org/2",
		},
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	runID, err := SaveRun(ctx, db.Pool, HashCV("my cv"), "data analyst", `{"query":"data analyst"}`, `{"fetched":2}`, sampleJobs())
	require.NoError(t, err)
	require.Positive(t, runID)

	run, found, err := GetRun(ctx, db.Pool, runID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "data analyst", run.Query)
	assert.Equal(t, 2, run.JobCount)
	assert.Equal(t, `{"fetched":2}`, run.StatsJSON)

	jobs, err := RunJobs(ctx, db.Pool, runID)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Data Analyst", jobs[0].Title, "position order preserved")
	require.NotNil(t, jobs[0].Comp)
	require.NotNil(t, jobs[0].Comp.AnnualGBP)
	assert.Equal(t, 52000.0, *jobs[0].Comp.AnnualGBP)
	require.NotNil(t, jobs[0].Scores)
	assert.Equal(t, 0.81, jobs[0].Scores.Final)
}

func TestGetRun_NotFound(t *testing.T) {
	db := openTestDB(t)
	_, found, err := GetRun(context.Background(), db.Pool, 999)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFindRecentRun(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	cvHash := HashCV("cv text")
	prefs := `{"query":"analyst"}`
	runID, err := SaveRun(ctx, db.Pool, cvHash, "analyst", prefs, "{}", sampleJobs())
	require.NoError(t, err)

	t.Run("hit within ttl", func(t *testing.T) {
		got, found, err := FindRecentRun(ctx, db.Pool, cvHash, prefs, 5*time.Minute)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, runID, got)
	})

	t.Run("different cv misses", func(t *testing.T) {
		_, found, err := FindRecentRun(ctx, db.Pool, HashCV("other cv"), prefs, 5*time.Minute)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("different prefs miss", func(t *testing.T) {
		_, found, err := FindRecentRun(ctx, db.Pool, cvHash, `{"query":"engineer"}`, 5*time.Minute)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("newest run wins", func(t *testing.T) {
		second, err := SaveRun(ctx, db.Pool, cvHash, "analyst", prefs, "{}", nil)
		require.NoError(t, err)
		got, found, err := FindRecentRun(ctx, db.Pool, cvHash, prefs, 5*time.Minute)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, second, got)
	})
}

func TestListRuns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := SaveRun(ctx, db.Pool, HashCV("cv"), "q", "{}", "{}", nil)
		require.NoError(t, err)
	}

	runs, err := ListRuns(ctx, db.Pool, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Greater(t, runs[0].ID, runs[1].ID, "newest first")
}

func TestHashCV(t *testing.T) {
	assert.Equal(t, HashCV("  cv  "), HashCV("cv"), "surrounding whitespace ignored")
	assert.NotEqual(t, HashCV("a"), HashCV("b"))
	assert.Len(t, HashCV("x"), 64)
}
