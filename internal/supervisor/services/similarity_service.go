// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/recommend"
)

// SimilarityRebuilder recomputes the similarity matrix.
type SimilarityRebuilder interface {
	RebuildSimilarities(ctx context.Context, trigger string) (*recommend.RebuildReport, error)
}

// SimilarityPruner removes similarity rows whose products no longer exist.
type SimilarityPruner interface {
	PruneSimilarities(ctx context.Context) (int64, error)
}

// SimilarityServiceConfig holds the rebuild schedule.
type SimilarityServiceConfig struct {
	// RebuildOnStartup runs one rebuild as soon as the service starts.
	RebuildOnStartup bool

	// RebuildInterval is the period between scheduled rebuilds. Zero
	// disables the schedule.
	RebuildInterval time.Duration

	// RebuildTimeout bounds a single rebuild. Default: 30m
	RebuildTimeout time.Duration
}

// SimilarityService runs scheduled similarity rebuilds under supervision.
// Failed rebuilds are logged and retried on the next tick; they never
// crash the service.
type SimilarityService struct {
	rebuilder SimilarityRebuilder
	pruner    SimilarityPruner
	config    SimilarityServiceConfig
	logger    zerolog.Logger
}

// NewSimilarityService creates the service. pruner may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSimilarityService(rebuilder SimilarityRebuilder, pruner SimilarityPruner, cfg SimilarityServiceConfig, logger zerolog.Logger) *SimilarityService {
	if cfg.RebuildTimeout <= 0 {
		cfg.RebuildTimeout = 30 * time.Minute
	}
	return &SimilarityService{
		rebuilder: rebuilder,
		pruner:    pruner,
		config:    cfg,
		logger:    logger.With().Str("service", "similarity").Logger(),
	}
}

// Serve implements suture.Service.
func (s *SimilarityService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("rebuild_on_startup", s.config.RebuildOnStartup).
		Dur("rebuild_interval", s.config.RebuildInterval).
		Msg("similarity service starting")

	if s.config.RebuildOnStartup {
		s.rebuild(ctx, recommend.TriggerStartup)
	}

	if s.config.RebuildInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.RebuildInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("similarity service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.rebuild(ctx, recommend.TriggerSchedule)
		}
	}
}

func (s *SimilarityService) rebuild(ctx context.Context, trigger string) {
	rebuildCtx, cancel := context.WithTimeout(ctx, s.config.RebuildTimeout)
	defer cancel()

	_, err := s.rebuilder.RebuildSimilarities(rebuildCtx, trigger)
	switch {
	case err == nil:
	case errors.Is(err, recommend.ErrNotFound):
		s.logger.Warn().Str("trigger", trigger).Msg("catalog is empty, skipping similarity rebuild")
		return
	case errors.Is(err, recommend.ErrRebuildInProgress):
		s.logger.Debug().Str("trigger", trigger).Msg("rebuild already running")
		return
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		return
	default:
		s.logger.Error().Err(err).Str("trigger", trigger).Msg("similarity rebuild failed")
		return
	}

	if s.pruner == nil {
		return
	}
	pruned, err := s.pruner.PruneSimilarities(rebuildCtx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("pruning stale similarities failed")
		return
	}
	if pruned > 0 {
		s.logger.Info().Int64("pruned", pruned).Msg("removed similarities of deleted products")
	}
}

// String implements fmt.Stringer for suture logs.
func (s *SimilarityService) String() string {
	return "similarity-service"
}
