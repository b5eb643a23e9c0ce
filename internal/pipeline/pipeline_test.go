package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobrank-engine/internal/comp"
	"jobrank-engine/internal/domain"
	"jobrank-engine/internal/source"
)

type stubFetcher struct {
	name string
	jobs []domain.JobPosting
	err  error
}

func (s stubFetcher) Name() string { return s.name }

func (s stubFetcher) Fetch(ctx context.Context, q source.Query) ([]domain.JobPosting, error) {
	return s.jobs, s.err
}

// pagedFetcher returns one posting per requested page.
type pagedFetcher struct {
	name  string
	pages int
}

func (p pagedFetcher) Name() string { return p.name }

func (p pagedFetcher) Pages(fast bool) int {
	if fast {
		return 1
	}
	return p.pages
}

func (p pagedFetcher) Fetch(ctx context.Context, q source.Query) ([]domain.JobPosting, error) {
	return []domain.JobPosting{{
		Source:      "Adzuna",
		ID:          fmt.Sprintf("page-%d", q.Page),
		Title:       "Data Analyst",
		Location:    "London, UK",
		RedirectURL: fmt.Sprintf("https://example.org/jobs/%d", q.Page),
	}}, nil
}

func gbJob(url, id string) domain.JobPosting {
	return domain.JobPosting{
		Source:      "Adzuna",
		ID:          id,
		Title:       "Data Analyst",
		Location:    "London, UK",
		RedirectURL: url,
	}
}

func newTestAggregator(fetchers ...source.Fetcher) *Aggregator {
	return NewAggregatorWith(fetchers, comp.DefaultTables(), "London")
}

func TestAggregate_DedupAndKeyless(t *testing.T) {
	a := newTestAggregator(
		stubFetcher{name: "one", jobs: []domain.JobPosting{
			gbJob("https://example.org/a", "1"),
			{Source: "Adzuna", ID: "7", Title: "Data Analyst", Location: "Leeds"},
		}},
		stubFetcher{name: "two", jobs: []domain.JobPosting{
			gbJob("https://example.org/a", "other"),              // same URL
			{Source: "Adzuna", ID: "7", Title: "Data Analyst", Location: "Leeds"}, // same source:id
			{Title: "No Key At All", Location: "London"},
		}},
	)

	out, stats, err := a.Aggregate(context.Background(), domain.Preferences{})
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Fetched)
	assert.Equal(t, 2, stats.Duplicates)
	assert.Equal(t, 1, stats.Keyless)
	assert.Equal(t, 2, stats.Unique)
	assert.Len(t, out, 2)

	for _, j := range out {
		assert.NotNil(t, j.Comp, "every surviving posting carries a comp estimate")
	}
}

func TestAggregate_PartialSourceFailure(t *testing.T) {
	a := newTestAggregator(
		stubFetcher{name: "ok", jobs: []domain.JobPosting{gbJob("https://example.org/a", "1")}},
		stubFetcher{name: "down", err: errors.New("connection refused")},
	)

	out, stats, err := a.Aggregate(context.Background(), domain.Preferences{})
	require.NoError(t, err, "one source failing never fails the batch")
	assert.Len(t, out, 1)
	require.Len(t, stats.SourceErrors, 1)
	assert.Equal(t, "down", stats.SourceErrors[0].Source)
}

func TestAggregate_StrictMarketFilter(t *testing.T) {
	jobs := []domain.JobPosting{
		gbJob("https://example.org/a", "1"),
		{Source: "Remotive", ID: "2", Title: "Data Analyst", Location: "Dublin, Ireland", RedirectURL: "https://example.org/b"},
	}

	t.Run("default strict keeps gb only", func(t *testing.T) {
		a := newTestAggregator(stubFetcher{name: "one", jobs: jobs})
		out, stats, err := a.Aggregate(context.Background(), domain.Preferences{Country: "gb"})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "London, UK", out[0].Location)
		assert.Equal(t, 1, stats.FilteredOut)
	})

	t.Run("strict off keeps everything", func(t *testing.T) {
		off := false
		a := newTestAggregator(stubFetcher{name: "one", jobs: jobs})
		out, _, err := a.Aggregate(context.Background(), domain.Preferences{Country: "gb", StrictMarket: &off})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("non-gb market skips the filter", func(t *testing.T) {
		a := newTestAggregator(stubFetcher{name: "one", jobs: jobs})
		out, _, err := a.Aggregate(context.Background(), domain.Preferences{Country: "us"})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})
}

func TestAggregate_GlobalCap(t *testing.T) {
	var jobs []domain.JobPosting
	for i := 0; i < 10; i++ {
		jobs = append(jobs, gbJob(fmt.Sprintf("https://example.org/%d", i), fmt.Sprintf("%d", i)))
	}
	a := newTestAggregator(stubFetcher{name: "one", jobs: jobs})

	out, stats, err := a.Aggregate(context.Background(), domain.Preferences{MaxPerSource: 1})
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Fetched)
	assert.Len(t, out, 6, "batch capped at 6x the per-source limit")
}

func TestAggregate_Pagination(t *testing.T) {
	f := pagedFetcher{name: "adzuna", pages: 2}

	t.Run("fast mode fetches one page", func(t *testing.T) {
		a := newTestAggregator(f)
		out, _, err := a.Aggregate(context.Background(), domain.Preferences{})
		require.NoError(t, err)
		assert.Len(t, out, 1)
	})

	t.Run("thorough mode fetches all pages", func(t *testing.T) {
		fast := false
		a := newTestAggregator(f)
		out, _, err := a.Aggregate(context.Background(), domain.Preferences{FastMode: &fast})
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})
}

func TestAggregate_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newTestAggregator(stubFetcher{name: "one", jobs: []domain.JobPosting{gbJob("https://example.org/a", "1")}})
	_, _, err := a.Aggregate(ctx, domain.Preferences{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregate_NoSources(t *testing.T) {
	a := newTestAggregator()
	out, stats, err := a.Aggregate(context.Background(), domain.Preferences{})
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, 0, stats.Fetched)
}
