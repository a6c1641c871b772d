package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/job-matcher/internal/catalog"
	"github.com/jonathan/job-matcher/internal/db"
	"github.com/jonathan/job-matcher/internal/db/sqlite"
	"github.com/jonathan/job-matcher/internal/evidence"
	"github.com/jonathan/job-matcher/internal/fixtures"
	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/prompts"
	"github.com/jonathan/job-matcher/internal/skills"
	"go.uber.org/zap"
)

// backend is the store surface used by the commands. Both the PostgreSQL and
// the SQLite store satisfy it.
type backend interface {
	matching.Store
	fixtures.Sink
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
}

// openBackend connects to the configured database. The returned func
// releases it.
func (a *app) openBackend(ctx context.Context) (backend, func(), error) {
	dbCfg := a.cfg.Database
	if dbCfg.URL == "" {
		return nil, nil, errors.New("database is not configured (set DATABASE_URL or database.url)")
	}

	if dbCfg.UsesSQLite() {
		store, err := sqlite.Open(ctx, dbCfg.SQLitePath())
		if err != nil {
			return nil, nil, err
		}
		a.logger.Debug("using sqlite store", zap.String("path", dbCfg.SQLitePath()))
		return store, func() { _ = store.Close() }, nil
	}

	store, err := db.Connect(ctx, dbCfg.URL)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debug("using postgres store")
	return store, store.Close, nil
}

// buildEngine wires the catalog, scorer, analysis client and engine. The
// returned client must be closed by the caller.
func (a *app) buildEngine(ctx context.Context, store matching.Store) (*matching.Engine, llm.Client, error) {
	cat, err := catalog.Load(a.cfg.Matching.CatalogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if err := prompts.Require(prompts.MatchingFile, append(evidence.PromptKeys(), matching.PromptKeys()...)...); err != nil {
		return nil, nil, err
	}

	client, err := llm.NewClient(ctx, a.cfg.AI.LLMConfig(), a.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create analysis client: %w", err)
	}
	if llm.IsConfigured(client) {
		a.logger.Info("analysis provider configured",
			zap.String("provider", string(client.Provider())),
			zap.String("model", client.GetModel(llm.TierStandard)),
		)
	}

	scorer := skills.NewScorer(cat.Graph(), skills.WithStackFloor(a.cfg.Matching.LegacyStackFloor))
	analyzer := evidence.NewAnalyzer(client, cat, scorer, a.logger)
	resolver := matching.NewResolver(client, a.logger)
	return matching.NewEngine(store, scorer, analyzer, resolver, a.logger), client, nil
}
