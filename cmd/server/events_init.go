// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/curator/internal/config"
	"github.com/tomtom215/curator/internal/eventprocessor"
	"github.com/tomtom215/curator/internal/logging"
	"github.com/tomtom215/curator/internal/recommend"
	"github.com/tomtom215/curator/internal/supervisor"
	"github.com/tomtom215/curator/internal/supervisor/services"
)

// EventComponents holds the event bus pieces the rest of main needs.
type EventComponents struct {
	Transport *eventprocessor.Transport
	Publisher *eventprocessor.Publisher
	Router    *eventprocessor.Router
}

// Close releases the publisher and the transport. The router is stopped by
// its supervisor service.
func (c *EventComponents) Close() {
	if c == nil {
		return
	}
	if err := c.Publisher.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing event publisher")
	}
	if err := c.Transport.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing event transport")
	}
}

// initEvents connects the event bus, attaches the interaction publisher to
// the engine and registers the rebuild and catalog feed consumers in the
// messaging layer.
// Returns nil, nil when events are disabled.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEvents(cfg *config.Config, engine *recommend.Engine, catalog eventprocessor.CatalogWriter, tree *supervisor.SupervisorTree, logger zerolog.Logger) (*EventComponents, error) {
	if !cfg.Events.Enabled {
		logger.Info().Msg("Event bus disabled (EVENTS_ENABLED=false)")
		return nil, nil
	}

	wmLogger := logging.NewWatermillAdapter(logger.With().Str("component", "watermill").Logger())

	transport, err := eventprocessor.NewTransport(&cfg.Events, wmLogger)
	if err != nil {
		return nil, err
	}

	publisher := eventprocessor.NewPublisher(transport.Publisher, cfg.Events.InteractionTopic, cfg.Events.RebuildTopic)
	publisher.SetCircuitBreaker(eventprocessor.NewCircuitBreaker(eventprocessor.DefaultCircuitBreakerConfig()))
	engine.SetPublisher(publisher)

	routerCfg := eventprocessor.DefaultRouterConfig()
	if cfg.Events.CloseTimeout > 0 {
		routerCfg.CloseTimeout = cfg.Events.CloseTimeout
	}
	router := eventprocessor.NewRouter(transport.Subscriber, &routerCfg, wmLogger)

	rebuildTopic := cfg.Events.RebuildTopic
	if rebuildTopic == "" {
		rebuildTopic = eventprocessor.DefaultRebuildTopic
	}
	handler := eventprocessor.NewRebuildHandler(engine, cfg.Events.RebuildMinInterval, cfg.Recommend.RebuildTimeout, logger)
	router.AddConsumerHandler("similarity-rebuild", rebuildTopic, handler.Handle)

	catalogTopic := cfg.Events.CatalogTopic
	if catalogTopic == "" {
		catalogTopic = eventprocessor.DefaultCatalogTopic
	}
	router.AddConsumerHandler("catalog-feed", catalogTopic, eventprocessor.NewCatalogHandler(catalog, logger).Handle)

	tree.AddMessagingService(services.NewEventRouterService(router, routerCfg.CloseTimeout, logger))

	logger.Info().
		Str("transport", transport.Kind).
		Str("interaction_topic", cfg.Events.InteractionTopic).
		Str("rebuild_topic", rebuildTopic).
		Str("catalog_topic", catalogTopic).
		Msg("Event bus initialized")

	return &EventComponents{
		Transport: transport,
		Publisher: publisher,
		Router:    router,
	}, nil
}
