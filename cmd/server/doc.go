// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package main is the entry point for the Curator server.

Curator records how shoppers interact with catalog products, keeps a
pairwise product similarity matrix in DuckDB and serves personalised
recommendations over a JSON HTTP API.

# Application Architecture

The server runs under a Suture v4 supervision tree:

	RootSupervisor ("curator")
	├── DataSupervisor ("data-layer")
	│   └── Similarity service (startup and scheduled rebuilds, pruning)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Event router (similarities.rebuild and catalog.products consumers, optional)
	└── APISupervisor ("api-layer")
	    └── HTTP server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, YAML file and environment
 2. Logging: zerolog with JSON or console output
 3. Database: DuckDB store with a circuit breaker, optional sample catalog
 4. Engine: profile builder, ranker, similarity builder
 5. Events (optional): Watermill over Go channels, NATS or embedded NATS
 6. HTTP: chi router with request id, metrics, CORS and rate limits
 7. Supervisor tree

# Configuration

Priority: Environment variables > Config file > Defaults

Core environment variables:

	HTTP_PORT=8080                   # listen port
	DUCKDB_PATH=/data/curator.duckdb # ":memory:" for an ephemeral store
	SEED_SAMPLE_CATALOG=true         # load a demo catalog into an empty store
	LOG_LEVEL=info                   # trace, debug, info, warn, error
	LOG_FORMAT=json                  # json or console

	JWT_SECRET=<secret>              # verify HS256 bearer tokens; unset trusts X-User-ID
	RECOMMEND_TIMEZONE=Europe/Berlin # hour-of-day bucketing
	RECOMMEND_REBUILD_INTERVAL=6h    # 0 disables scheduled rebuilds
	RECOMMEND_REBUILD_ON_STARTUP=true

	EVENTS_ENABLED=true              # publish interactions, accept async rebuilds, consume the catalog feed
	NATS_URL=nats://nats:4222        # external NATS; NATS_EMBEDDED=true starts one in-process

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests, the event router finishes its handlers, and the store
is closed last.

# Example Usage

	SEED_SAMPLE_CATALOG=true DUCKDB_PATH=:memory: LOG_FORMAT=console ./curator

	curl -H 'X-User-ID: u1' -d '{"product_id":"p-1001","interaction_type":"view"}' \
	  localhost:8080/api/v1/recommendations/track
	curl -X POST -H 'X-User-ID: ops' localhost:8080/api/v1/recommendations/similarities/rebuild
	curl -H 'X-User-ID: u1' localhost:8080/api/v1/recommendations
*/
package main
