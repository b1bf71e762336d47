// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package config loads and validates Curator configuration.

# Configuration Sources

Configuration is layered with koanf, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. YAML file: CONFIG_PATH, else config.yaml / config.yml / /etc/curator/config.yaml
 3. Environment variables (explicit mapping, unknown variables ignored)

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default 8080), HTTP_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development or production

Database:
  - DUCKDB_PATH (default /data/curator.duckdb), DUCKDB_MAX_MEMORY, DUCKDB_THREADS
  - DUCKDB_QUERY_TIMEOUT, DUCKDB_BREAKER_THRESHOLD, DUCKDB_BREAKER_TIMEOUT
  - SEED_SAMPLE_CATALOG: load demo products into an empty catalog

Recommendation engine:
  - RECOMMEND_HISTORY_WINDOW (20), RECOMMEND_TOP_CATEGORIES (3)
  - RECOMMEND_NEIGHBOR_LIMIT (30), RECOMMEND_RESULT_LIMIT (8)
  - RECOMMEND_DAYTIME_CATEGORY (Electronics), RECOMMEND_NIGHTTIME_CATEGORY (Books)
  - RECOMMEND_TIMEZONE, RECOMMEND_PLACEHOLDER_IMAGE
  - RECOMMEND_REBUILD_ON_STARTUP, RECOMMEND_REBUILD_INTERVAL (6h), RECOMMEND_REBUILD_TIMEOUT (30m)
  - RECOMMEND_REBUILD_WORKERS, RECOMMEND_UPSERT_BATCH_SIZE

Events:
  - EVENTS_ENABLED, NATS_URL, NATS_EMBEDDED, NATS_EMBEDDED_HOST, NATS_EMBEDDED_PORT
  - NATS_QUEUE_GROUP, EVENTS_INTERACTION_TOPIC, EVENTS_REBUILD_TOPIC
  - EVENTS_CATALOG_TOPIC: product feed into the products mirror
  - EVENTS_REBUILD_MIN_INTERVAL

Security:
  - JWT_SECRET, JWT_ISSUER
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CORS_ORIGINS: comma-separated

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
