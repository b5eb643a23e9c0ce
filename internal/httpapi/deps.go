package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"
	"time"

	"jobrank-engine/internal/comp"
	"jobrank-engine/internal/config"
	"jobrank-engine/internal/domain"
	"jobrank-engine/internal/events"
	"jobrank-engine/internal/pipeline"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic store for the live config snapshot
	CfgVal *atomic.Value // stores config.Config

	Tables comp.Tables

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Search entrypoint (inject for testability)
	SearchAndRank func(ctx context.Context, cfg config.Config, tables comp.Tables, cvText string, prefs domain.Preferences) ([]domain.JobPosting, pipeline.Stats, error)

	// How long an identical repeat search answers from the run cache
	CacheTTL time.Duration
}
