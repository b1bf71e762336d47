// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// EventRouter is the lifecycle of the message router.
type EventRouter interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	IsRunning() bool
}

// EventRouterService runs the event router under supervision. When the
// router stops on its own the service returns an error so suture restarts it.
type EventRouterService struct {
	router          EventRouter
	shutdownTimeout time.Duration
	healthInterval  time.Duration
	logger          zerolog.Logger
}

// NewEventRouterService wraps router.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEventRouterService(router EventRouter, shutdownTimeout time.Duration, logger zerolog.Logger) *EventRouterService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	return &EventRouterService{
		router:          router,
		shutdownTimeout: shutdownTimeout,
		healthInterval:  5 * time.Second,
		logger:          logger.With().Str("service", "event-router").Logger(),
	}
}

// Serve implements suture.Service.
func (s *EventRouterService) Serve(ctx context.Context) error {
	if err := s.router.Start(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("start event router: %w", err)
	}
	s.logger.Info().Msg("event router started")

	ticker := time.NewTicker(s.healthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			s.router.Shutdown(shutdownCtx)
			cancel()
			s.logger.Info().Msg("event router stopped")
			return ctx.Err()
		case <-ticker.C:
			if !s.router.IsRunning() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
				s.router.Shutdown(shutdownCtx)
				cancel()
				return fmt.Errorf("event router stopped unexpectedly")
			}
		}
	}
}

// String implements fmt.Stringer for suture logs.
func (s *EventRouterService) String() string {
	return "event-router"
}
