package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/scout-genomics/scout/internal/annotate"
	"github.com/scout-genomics/scout/internal/api"
	"github.com/scout-genomics/scout/internal/classify"
	"github.com/scout-genomics/scout/internal/config"
	"github.com/scout-genomics/scout/internal/database"
	"github.com/scout-genomics/scout/internal/events"
	"github.com/scout-genomics/scout/internal/evidence"
	"github.com/scout-genomics/scout/internal/query"
	"github.com/scout-genomics/scout/internal/reference"
	"github.com/scout-genomics/scout/internal/repository"
	"github.com/scout-genomics/scout/internal/store"
	"github.com/scout-genomics/scout/pkg/loqus"
)

const geneCacheSize = 512

// openRepository connects to Postgres, applies pending migrations and wraps
// the pool in the document store.
func openRepository(ctx context.Context, settings *config.Settings, logger *logrus.Logger) (store.Store, *database.DB, error) {
	runner, err := database.NewMigrationRunner(settings.Database.URL(),
		settings.Database.Migrations, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to prepare migrations: %w", err)
	}
	if err := runner.Up(); err != nil {
		runner.Close()
		return nil, nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	runner.Close()

	db, err := database.NewConnection(ctx, settings.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	return repository.New(db, logger), db, nil
}

// buildDependencies wires the services around a store.
func buildDependencies(st store.Store, settings *config.Settings, logger *logrus.Logger) (api.Dependencies, error) {
	resolver, err := reference.NewResolver(st, geneCacheSize, logger)
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("failed to build reference resolver: %w", err)
	}

	rankModels, err := annotate.NewRankModelClient(annotate.RankModelConfig{
		LinkPrefix:    settings.RankModel.LinkPrefix,
		SVLinkPrefix:  settings.RankModel.SVLinkPrefix,
		FileExtension: settings.RankModel.FileExtension,
	}, logger)
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("failed to build rank model client: %w", err)
	}

	cache, err := loqus.NewCache(settings.RedisURL)
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("failed to connect observation cache: %w", err)
	}
	registry, err := loqus.NewRegistry(settings.Loqus, cache, logger)
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("failed to build observation registry: %w", err)
	}

	journal := events.NewJournal(st, logger)

	return api.Dependencies{
		Store:      st,
		Resolver:   resolver,
		Journal:    journal,
		Engine:     classify.NewEngine(st, journal, logger),
		Annotator:  annotate.New(st, resolver, logger),
		RankModels: rankModels,
		Queries:    query.NewService(st, resolver, logger),
		Filters:    query.NewFilters(st, journal, logger),
		Evidence:   evidence.New(st, registry, logger),
		Logger:     logger,
	}, nil
}
