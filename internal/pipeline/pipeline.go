// Package pipeline fans fetches out to every enabled source, merges and
// deduplicates the results, attaches compensation estimates and applies the
// market filter. Everything after the parallel fetch stage is
// single-threaded over the in-memory batch.
package pipeline

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"jobrank-engine/internal/comp"
	"jobrank-engine/internal/config"
	"jobrank-engine/internal/domain"
	"jobrank-engine/internal/secrets"
	"jobrank-engine/internal/source"
	"jobrank-engine/internal/source/adzuna"
	"jobrank-engine/internal/source/emailalert"
	"jobrank-engine/internal/source/greenhouse"
	"jobrank-engine/internal/source/lever"
	"jobrank-engine/internal/source/remotive"
	"jobrank-engine/internal/source/srcutil"
)

const (
	// fetchWorkers bounds the concurrent source/page tasks.
	fetchWorkers = 8
	// fetchTimeout caps any single task; a slow source contributes nothing
	// past this bound.
	fetchTimeout = 20 * time.Second
	// globalCapFactor * maxPerSource bounds the total batch before ranking.
	globalCapFactor = 6
)

// SourceError records a source that contributed nothing this batch.
type SourceError struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// Stats describes what happened to one aggregation batch.
type Stats struct {
	Fetched      int           `json:"fetched"`
	Unique       int           `json:"unique"`
	Duplicates   int           `json:"duplicates"`
	Keyless      int           `json:"keyless"`
	FilteredOut  int           `json:"filtered_out"`
	SourceErrors []SourceError `json:"source_errors,omitempty"`
}

// Aggregator owns the per-request fetcher set and the comp estimator. Build
// one from a config snapshot per request; it holds no shared mutable state.
type Aggregator struct {
	fetchers  []source.Fetcher
	estimator *comp.Estimator
	baseCity  string
}

// NewAggregator assembles the enabled fetchers from a config snapshot.
// Adapters that need credentials look them up now (keychain, then env).
func NewAggregator(cfg config.Config, tables comp.Tables) *Aggregator {
	limiter := srcutil.NewHostLimiter(2.0, 4)

	var fetchers []source.Fetcher
	if cfg.Sources.Adzuna.Enabled {
		fetchers = append(fetchers, adzuna.New(adzuna.Config{
			AppID:   secrets.AdzunaAppID(),
			AppKey:  secrets.AdzunaAppKey(),
			Country: cfg.Sources.Adzuna.Country,
		}, limiter))
	}
	if cfg.Sources.Remotive.Enabled {
		fetchers = append(fetchers, remotive.New(remotive.Config{}, limiter))
	}
	if cfg.Sources.Greenhouse.Enabled && len(cfg.Sources.Greenhouse.Boards) > 0 {
		fetchers = append(fetchers, greenhouse.New(greenhouse.Config{
			Boards: mapGreenhouseBoards(cfg.Sources.Greenhouse.Boards),
		}, limiter))
	}
	if cfg.Sources.Lever.Enabled && len(cfg.Sources.Lever.Boards) > 0 {
		fetchers = append(fetchers, lever.New(lever.Config{
			Boards: mapLeverBoards(cfg.Sources.Lever.Boards),
		}, limiter))
	}
	if cfg.Sources.EmailAlerts.Enabled {
		ea := cfg.Sources.EmailAlerts
		fetchers = append(fetchers, emailalert.New(emailalert.Config{
			Host:        ea.IMAPHost,
			Port:        ea.IMAPPort,
			Username:    ea.Username,
			Password:    secrets.IMAPPassword(ea.Username, ea.IMAPHost),
			Mailbox:     ea.Mailbox,
			MaxMessages: ea.MaxMessages,
		}))
	}

	baseCity := cfg.Comp.BaseCity
	if baseCity == "" {
		baseCity = "London"
	}

	return &Aggregator{
		fetchers:  fetchers,
		estimator: comp.NewEstimator(tables),
		baseCity:  baseCity,
	}
}

// NewAggregatorWith is the test seam: explicit fetchers, no config lookup.
func NewAggregatorWith(fetchers []source.Fetcher, tables comp.Tables, baseCity string) *Aggregator {
	return &Aggregator{
		fetchers:  fetchers,
		estimator: comp.NewEstimator(tables),
		baseCity:  baseCity,
	}
}

type task struct {
	f source.Fetcher
	q source.Query
}

type outcome struct {
	source string
	jobs   []domain.JobPosting
	err    error
}

// Aggregate runs one batch: fan out, join, cap, dedup, estimate, filter.
// A source failing only shrinks the batch; an empty batch is a normal
// result, not an error. The only error returned is caller cancellation.
func (a *Aggregator) Aggregate(ctx context.Context, prefs domain.Preferences) ([]domain.JobPosting, Stats, error) {
	prefs = prefs.Normalized()
	var stats Stats

	tasks := a.buildTasks(prefs)
	if len(tasks) == 0 {
		log.Printf("[aggregate] no sources enabled")
		return nil, stats, nil
	}

	results := make(chan outcome, len(tasks))
	var g errgroup.Group
	g.SetLimit(fetchWorkers)
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()
			jobs, err := t.f.Fetch(fctx, t.q)
			results <- outcome{source: t.f.Name(), jobs: jobs, err: err}
			return nil
		})
	}
	// Tasks never return errors; every task settles before we proceed.
	_ = g.Wait()
	close(results)

	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	var collected []domain.JobPosting
	totalCap := prefs.MaxPerSource * globalCapFactor
	for res := range results {
		if res.err != nil {
			log.Printf("[aggregate] source=%s error: %v", res.source, res.err)
			stats.SourceErrors = append(stats.SourceErrors, SourceError{Source: res.source, Error: res.err.Error()})
			continue
		}
		collected = append(collected, res.jobs...)
	}
	stats.Fetched = len(collected)
	if len(collected) > totalCap {
		collected = collected[:totalCap]
	}

	// Dedup: first occurrence wins; keyless postings cannot be
	// deduplicated safely and are dropped.
	seen := make(map[string]bool, len(collected))
	deduped := collected[:0]
	for _, j := range collected {
		key := j.DedupKey()
		if key == "" {
			stats.Keyless++
			continue
		}
		if seen[key] {
			stats.Duplicates++
			continue
		}
		seen[key] = true

		est := a.estimator.Estimate(j, a.baseCity)
		j.Comp = &est
		deduped = append(deduped, j)
	}

	out := deduped
	if prefs.Country == "gb" && prefs.Strict() {
		out = out[:0]
		for _, j := range deduped {
			if IsGBLocation(j.Location) {
				out = append(out, j)
			} else {
				stats.FilteredOut++
			}
		}
	}
	stats.Unique = len(out)

	log.Printf("[aggregate] fetched=%d unique=%d dup=%d keyless=%d filtered=%d errors=%d",
		stats.Fetched, stats.Unique, stats.Duplicates, stats.Keyless, stats.FilteredOut, len(stats.SourceErrors))
	return out, stats, nil
}

// buildTasks expands the fetcher set into per-page tasks. Non-paginated
// sources get a single page-1 task.
func (a *Aggregator) buildTasks(prefs domain.Preferences) []task {
	base := source.Query{
		Text:       prefs.Query,
		Location:   prefs.Location,
		MinSalary:  prefs.MinSalary,
		MaxDaysOld: prefs.MaxDaysOld,
		PerPage:    prefs.MaxPerSource,
		Country:    prefs.Country,
	}

	var tasks []task
	for _, f := range a.fetchers {
		pages := 1
		if p, ok := f.(source.Paginated); ok {
			pages = p.Pages(prefs.Fast())
		}
		for page := 1; page <= pages; page++ {
			q := base
			q.Page = page
			tasks = append(tasks, task{f: f, q: q})
		}
	}
	return tasks
}

func mapGreenhouseBoards(in []config.Board) []greenhouse.Board {
	out := make([]greenhouse.Board, 0, len(in))
	for _, b := range in {
		out = append(out, greenhouse.Board{Slug: b.Slug, Name: b.Name})
	}
	return out
}

func mapLeverBoards(in []config.Board) []lever.Board {
	out := make([]lever.Board, 0, len(in))
	for _, b := range in {
		out = append(out, lever.Board{Slug: b.Slug, Name: b.Name})
	}
	return out
}
