// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/curator/internal/database"
	"github.com/tomtom215/curator/internal/recommend"
)

// HealthStore is the store view needed by readiness checks.
type HealthStore interface {
	Ping(ctx context.Context) error
	RecordCounts(ctx context.Context) (*database.RecordCounts, error)
	BreakerState() string
}

// RebuildStatus reports on similarity rebuilds.
type RebuildStatus interface {
	LastRebuild() *recommend.RebuildReport
	RebuildInProgress() bool
}

// RouterStatus reports whether the event router is consuming.
type RouterStatus interface {
	IsRunning() bool
}

// HealthHandler serves /api/v1/health.
type HealthHandler struct {
	store     HealthStore
	rebuilds  RebuildStatus
	events    RouterStatus
	version   string
	startTime time.Time
}

// NewHealthHandler creates the handler. rebuilds and events may be nil.
func NewHealthHandler(store HealthStore, rebuilds RebuildStatus, events RouterStatus, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		rebuilds:  rebuilds,
		events:    events,
		version:   version,
		startTime: time.Now(),
	}
}

// ReadinessStatus is the data of /health/ready.
type ReadinessStatus struct {
	Ready          bool                     `json:"ready"`
	Version        string                   `json:"version"`
	Uptime         float64                  `json:"uptime_seconds"`
	Database       string                   `json:"database"`
	CircuitBreaker string                   `json:"circuit_breaker"`
	Records        *database.RecordCounts   `json:"records,omitempty"`
	EventRouter    string                   `json:"event_router"`
	Rebuilding     bool                     `json:"rebuilding"`
	LastRebuild    *recommend.RebuildReport `json:"last_rebuild,omitempty"`
}

// Live handles GET /api/v1/health/live. It succeeds while the process runs.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// Ready handles GET /api/v1/health/ready. It returns 503 when the database is
// unreachable or its circuit breaker is open. The event router is reported
// but does not affect readiness.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := ReadinessStatus{
		Version:        h.version,
		Uptime:         time.Since(h.startTime).Seconds(),
		Database:       "ok",
		CircuitBreaker: h.store.BreakerState(),
		EventRouter:    "disabled",
	}

	ready := true
	if err := h.store.Ping(ctx); err != nil {
		status.Database = "unreachable"
		ready = false
	} else if counts, err := h.store.RecordCounts(ctx); err != nil {
		status.Database = "degraded"
		ready = false
	} else {
		status.Records = counts
	}
	if status.CircuitBreaker == "open" {
		ready = false
	}

	if h.events != nil {
		status.EventRouter = "stopped"
		if h.events.IsRunning() {
			status.EventRouter = "running"
		}
	}
	if h.rebuilds != nil {
		status.Rebuilding = h.rebuilds.RebuildInProgress()
		status.LastRebuild = h.rebuilds.LastRebuild()
	}
	status.Ready = ready

	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}
	respondSuccess(w, r, code, status, start)
}
