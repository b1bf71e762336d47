// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package metrics provides Prometheus instrumentation for the recommendation
service.

# Metrics Endpoint

Metrics are exposed in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Store:
  - curator_db_query_duration_seconds{operation}
  - curator_db_query_errors_total{operation}
  - curator_circuit_breaker_state{name} (0=closed, 1=half-open, 2=open)
  - curator_circuit_breaker_transitions_total{name, from, to}

Engine:
  - curator_interactions_tracked_total{type}
  - curator_interactions_rejected_total{reason}
  - curator_recommend_requests_total{outcome} (success, degraded, error)
  - curator_recommend_duration_seconds
  - curator_recommend_candidates_total{source} (similarity, backfill)

Similarity rebuilds:
  - curator_similarity_rebuilds_total{outcome, trigger}
  - curator_similarity_rebuild_duration_seconds
  - curator_similarity_pairs_scored_total
  - curator_similarity_pair_errors_total
  - curator_similarity_last_rebuild_timestamp_seconds

Event bus:
  - curator_events_published_total{topic, outcome}
  - curator_rebuild_requests_dropped_total
  - curator_catalog_products_applied_total{op} (upsert, remove)

HTTP:
  - curator_api_request_duration_seconds{method, route, status}
  - curator_api_active_requests

All collectors are registered with the default registry through promauto.
Use the Record* helpers rather than touching the vectors directly.
*/
package metrics
