// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - DuckDB store queries
// - interaction tracking and recommendation serving
// - similarity matrix rebuilds
// - event bus publishing
// - HTTP API latency

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "curator_db_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_db_query_errors_total",
			Help: "Total number of failed DuckDB queries",
		},
		[]string{"operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "curator_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Interaction Metrics
	InteractionsTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_interactions_tracked_total",
			Help: "Total number of stored interaction events",
		},
		[]string{"type"},
	)

	InteractionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_interactions_rejected_total",
			Help: "Total number of rejected interaction events",
		},
		[]string{"reason"}, // "invalid_argument", "not_found", "upstream"
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"outcome"}, // "success", "degraded", "error"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "curator_recommend_duration_seconds",
			Help:    "Time to produce a recommendation list",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	RecommendCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_recommend_candidates_total",
			Help: "Recommended products by the phase that selected them",
		},
		[]string{"source"}, // "similarity", "backfill"
	)

	// Similarity Rebuild Metrics
	SimilarityRebuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_similarity_rebuilds_total",
			Help: "Total number of similarity matrix rebuilds",
		},
		[]string{"outcome", "trigger"}, // outcome: success, empty_catalog, error, busy
	)

	SimilarityRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "curator_similarity_rebuild_duration_seconds",
			Help:    "Duration of similarity matrix rebuilds",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10), // 10ms .. ~43m
		},
	)

	SimilarityPairsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "curator_similarity_pairs_scored_total",
			Help: "Total number of product pairs scored",
		},
	)

	SimilarityPairErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "curator_similarity_pair_errors_total",
			Help: "Pairs whose similarity could not be computed and were stored as 0",
		},
	)

	SimilarityLastRebuild = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "curator_similarity_last_rebuild_timestamp_seconds",
			Help: "Unix time of the last successful rebuild",
		},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_events_published_total",
			Help: "Messages published to the event bus",
		},
		[]string{"topic", "outcome"},
	)

	RebuildRequestsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "curator_rebuild_requests_dropped_total",
			Help: "Rebuild requests dropped because they arrived too soon after the previous one",
		},
	)

	CatalogProductsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curator_catalog_products_applied_total",
			Help: "Products written to or removed from the catalog mirror by the catalog feed",
		},
		[]string{"op"}, // upsert, remove
	)

	// API Metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "curator_api_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "curator_api_active_requests",
			Help: "HTTP requests currently being served",
		},
	)
)

// RecordDBQuery records the duration and outcome of a store query.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordRebuild records a finished similarity rebuild.
func RecordRebuild(outcome, trigger string, duration time.Duration, pairs, pairErrors int) {
	SimilarityRebuilds.WithLabelValues(outcome, trigger).Inc()
	if outcome != "success" {
		return
	}
	SimilarityRebuildDuration.Observe(duration.Seconds())
	SimilarityPairsScored.Add(float64(pairs))
	SimilarityPairErrors.Add(float64(pairErrors))
	SimilarityLastRebuild.SetToCurrentTime()
}

// RecordRecommendation records a served recommendation request.
func RecordRecommendation(outcome string, duration time.Duration, similarity, backfill int) {
	RecommendRequests.WithLabelValues(outcome).Inc()
	RecommendDuration.Observe(duration.Seconds())
	if similarity > 0 {
		RecommendCandidates.WithLabelValues("similarity").Add(float64(similarity))
	}
	if backfill > 0 {
		RecommendCandidates.WithLabelValues("backfill").Add(float64(backfill))
	}
}

// RecordPublish records one event bus publish attempt.
func RecordPublish(topic string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	EventsPublished.WithLabelValues(topic, outcome).Inc()
}

// RecordAPIRequest records one HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}
