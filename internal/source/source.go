package source

import (
	"context"

	"jobrank-engine/internal/domain"
)

// Query carries the provider-agnostic search parameters. Adapters ignore
// fields their upstream API cannot express.
type Query struct {
	Text       string // free-text query / target titles
	Location   string // free-text location filter
	MinSalary  int    // annual salary floor, 0 = none
	MaxDaysOld int    // recency cutoff in days, 0 = none
	Page       int    // 1-based, for paginated providers
	PerPage    int    // per-source result cap
	Country    string // market code, e.g. "gb"
}

// Fetcher is the single capability every source adapter implements. A fetch
// must not fail for ordinary conditions (no results, malformed rows: return
// what parsed); transport errors are returned and the aggregator treats the
// source as having contributed nothing.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]domain.JobPosting, error)
}

// Paginated is implemented by adapters whose upstream pages results; the
// aggregator schedules one task per page.
type Paginated interface {
	Pages(fast bool) int
}
