// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package eventprocessor is the event bus of the recommendation service, built
on Watermill.

# Topics

  - interactions.tracked: one InteractionMessage per stored interaction,
    published after the DuckDB write. Downstream consumers (analytics, feature
    pipelines) subscribe; the service itself does not.
  - similarities.rebuild: RebuildRequest messages consumed by RebuildHandler,
    which runs Engine.RebuildSimilarities.
  - catalog.products: CatalogUpdate messages from the catalog service,
    consumed by CatalogHandler, which upserts and removes rows of the
    products mirror. This is the production feed of the catalog; the sample
    seed is for development only.

# Transports

NewTransport picks one of three backends from config.EventsConfig:

  - embedded: an in-process nats-server with a core NATS client
  - nats: an external NATS server at events.url
  - channel: Watermill's gochannel pub/sub, for single-process setups and tests

Core NATS is used with JetStream disabled. The interaction log in DuckDB is
the durable record; the bus only carries notifications.

# Resilience

Publisher runs every publish through a gobreaker circuit breaker. The Router
recovers handler panics and retries failed handlers with exponential backoff.
RebuildHandler coalesces bursts of rebuild requests with a token bucket from
golang.org/x/time/rate.

# Usage

	transport, err := eventprocessor.NewTransport(&cfg.Events, logging.NewWatermillAdapter(logger))
	publisher := eventprocessor.NewPublisher(transport.Publisher, cfg.Events.InteractionTopic, cfg.Events.RebuildTopic)
	publisher.SetCircuitBreaker(eventprocessor.NewCircuitBreaker(eventprocessor.DefaultCircuitBreakerConfig()))
	engine.SetPublisher(publisher)

	router := eventprocessor.NewRouter(transport.Subscriber, nil, wmLogger)
	handler := eventprocessor.NewRebuildHandler(engine, cfg.Events.RebuildMinInterval, cfg.Recommend.RebuildTimeout, logger)
	router.AddConsumerHandler("similarity-rebuild", cfg.Events.RebuildTopic, handler.Handle)
*/
package eventprocessor
