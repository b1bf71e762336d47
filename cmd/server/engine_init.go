// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/config"
	"github.com/tomtom215/curator/internal/database"
	"github.com/tomtom215/curator/internal/recommend"
	"github.com/tomtom215/curator/internal/supervisor"
	"github.com/tomtom215/curator/internal/supervisor/services"
)

// buildEngineConfig maps the recommend section onto the engine config.
// Zero values keep the engine defaults.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	engineCfg := recommend.DefaultConfig()
	rc := &cfg.Recommend

	if rc.HistoryWindow > 0 {
		engineCfg.HistoryWindow = rc.HistoryWindow
	}
	if rc.TopCategories > 0 {
		engineCfg.TopCategories = rc.TopCategories
	}
	if rc.NeighborLimit > 0 {
		engineCfg.NeighborLimit = rc.NeighborLimit
	}
	if rc.ResultLimit > 0 {
		engineCfg.ResultLimit = rc.ResultLimit
	}
	if rc.DaytimeCategory != "" {
		engineCfg.DaytimeCategory = rc.DaytimeCategory
	}
	if rc.NighttimeCategory != "" {
		engineCfg.NighttimeCategory = rc.NighttimeCategory
	}
	if rc.PlaceholderImage != "" {
		engineCfg.PlaceholderImage = rc.PlaceholderImage
	}
	if rc.RebuildWorkers > 0 {
		engineCfg.Workers = rc.RebuildWorkers
	}
	if rc.UpsertBatchSize > 0 {
		engineCfg.BatchSize = rc.UpsertBatchSize
	}
	engineCfg.Location = rc.Location()

	return engineCfg
}

// initEngine creates the engine over db and registers the similarity
// service in the data layer.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEngine(cfg *config.Config, db *database.DB, tree *supervisor.SupervisorTree, logger zerolog.Logger) (*recommend.Engine, error) {
	engineCfg := buildEngineConfig(cfg)

	engine, err := recommend.NewEngine(engineCfg, recommend.Deps{
		Catalog:      db,
		Interactions: db,
		Similarities: db,
	}, logger)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("history_window", engineCfg.HistoryWindow).
		Int("result_limit", engineCfg.ResultLimit).
		Int("workers", engineCfg.Workers).
		Str("timezone", engineCfg.Location.String()).
		Dur("rebuild_interval", cfg.Recommend.RebuildInterval).
		Bool("rebuild_on_startup", cfg.Recommend.RebuildOnStartup).
		Msg("Recommendation engine initialized")

	tree.AddDataService(services.NewSimilarityService(engine, db, services.SimilarityServiceConfig{
		RebuildOnStartup: cfg.Recommend.RebuildOnStartup,
		RebuildInterval:  cfg.Recommend.RebuildInterval,
		RebuildTimeout:   cfg.Recommend.RebuildTimeout,
	}, logger))

	return engine, nil
}
