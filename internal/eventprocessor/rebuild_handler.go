// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package eventprocessor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/curator/internal/logging"
	"github.com/tomtom215/curator/internal/metrics"
	"github.com/tomtom215/curator/internal/recommend"
)

// Rebuilder recomputes the similarity matrix.
type Rebuilder interface {
	RebuildSimilarities(ctx context.Context, trigger string) (*recommend.RebuildReport, error)
}

// RebuildHandler consumes similarities.rebuild messages.
//
// Requests arriving within minInterval of the last accepted one are acked
// and dropped, as are requests that find a rebuild already running. An empty
// catalog is not retried. A request whose rebuild failed keeps its slot:
// redeliveries of the same message bypass the throttle.
type RebuildHandler struct {
	rebuilder Rebuilder
	limiter   *rate.Limiter
	timeout   time.Duration
	logger    zerolog.Logger

	mu      sync.Mutex
	pending map[string]time.Time // message UUID -> first failure
}

// pendingTTL bounds how long a failed request may bypass the throttle.
const pendingTTL = time.Hour

// NewRebuildHandler creates a handler. minInterval <= 0 disables throttling;
// timeout <= 0 means no per-run deadline.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRebuildHandler(rebuilder Rebuilder, minInterval, timeout time.Duration, logger zerolog.Logger) *RebuildHandler {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &RebuildHandler{
		rebuilder: rebuilder,
		limiter:   rate.NewLimiter(limit, 1),
		timeout:   timeout,
		logger:    logger.With().Str("handler", "similarity-rebuild").Logger(),
		pending:   make(map[string]time.Time),
	}
}

// Handle implements message.NoPublishHandlerFunc.
func (h *RebuildHandler) Handle(msg *message.Message) error {
	req, err := DecodeRebuildRequest(msg.Payload)
	if err != nil {
		// Retrying a malformed payload cannot succeed.
		h.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed rebuild request")
		return nil
	}

	log := h.logger.With().
		Str("request_id", req.RequestID).
		Str("reason", req.Reason).
		Logger()

	if !h.isRetry(msg.UUID) && !h.limiter.Allow() {
		metrics.RebuildRequestsDropped.Inc()
		log.Debug().Msg("Rebuild request throttled")
		return nil
	}

	ctx := msg.Context()
	if id := msg.Metadata.Get(MetadataCorrelationID); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	report, err := h.rebuilder.RebuildSimilarities(ctx, recommend.TriggerEvent)
	if err != nil && isRetryable(err) {
		h.markPending(msg.UUID)
		return err
	}
	h.clearPending(msg.UUID)

	switch {
	case err == nil:
		log.Info().
			Int("products", report.Products).
			Int("updated_count", report.Updated).
			Dur("duration", report.Duration).
			Msg("Similarity rebuild from request complete")
		return nil
	case errors.Is(err, recommend.ErrRebuildInProgress):
		metrics.RebuildRequestsDropped.Inc()
		log.Debug().Msg("Rebuild already running, request dropped")
		return nil
	default:
		log.Warn().Err(err).Msg("Rebuild request found an empty catalog")
		return nil
	}
}

// isRetryable reports whether a failed rebuild should be redelivered.
func isRetryable(err error) bool {
	return !errors.Is(err, recommend.ErrRebuildInProgress) && !errors.Is(err, recommend.ErrNotFound)
}

func (h *RebuildHandler) isRetry(uuid string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	failedAt, ok := h.pending[uuid]
	if ok && time.Since(failedAt) > pendingTTL {
		delete(h.pending, uuid)
		return false
	}
	return ok
}

func (h *RebuildHandler) markPending(uuid string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.pending[uuid]; ok {
		return
	}
	now := time.Now()
	for id, failedAt := range h.pending {
		if now.Sub(failedAt) > pendingTTL {
			delete(h.pending, id)
		}
	}
	h.pending[uuid] = now
}

func (h *RebuildHandler) clearPending(uuid string) {
	h.mu.Lock()
	delete(h.pending, uuid)
	h.mu.Unlock()
}
