package pipeline

import (
	"context"

	"jobrank-engine/internal/comp"
	"jobrank-engine/internal/config"
	"jobrank-engine/internal/domain"
	"jobrank-engine/internal/rank"
)

// SearchAndRank is the whole core in one call: aggregate across sources,
// then score and order the batch against the CV. Ranking cannot start until
// aggregation has fully settled, since the salary and relevance signals are
// normalized over the complete batch.
func SearchAndRank(ctx context.Context, cfg config.Config, tables comp.Tables, cvText string, prefs domain.Preferences) ([]domain.JobPosting, Stats, error) {
	prefs = prefs.Normalized()

	agg := NewAggregator(cfg, tables)
	jobs, stats, err := agg.Aggregate(ctx, prefs)
	if err != nil {
		return nil, stats, err
	}
	return rank.Rank(cvText, jobs, prefs), stats, nil
}
