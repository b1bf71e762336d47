// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/curator/internal/auth"
	"github.com/tomtom215/curator/internal/logging"
	"github.com/tomtom215/curator/internal/models"
	"github.com/tomtom215/curator/internal/recommend"
)

// Engine is the subset of *recommend.Engine the HTTP layer uses.
type Engine interface {
	TrackInteraction(ctx context.Context, req recommend.TrackRequest) (*models.InteractionEvent, error)
	GetRecommendations(ctx context.Context, userID string) ([]recommend.Result, error)
	PreferenceProfile(ctx context.Context, userID string) (*recommend.Profile, []models.RecentInteraction, error)
	RebuildSimilarities(ctx context.Context, trigger string) (*recommend.RebuildReport, error)
}

// RebuildRequester queues a rebuild on the event bus.
type RebuildRequester interface {
	RequestRebuild(ctx context.Context, reason string) (string, error)
}

// RecommendHandler serves /api/v1/recommendations.
type RecommendHandler struct {
	engine         Engine
	rebuilds       RebuildRequester
	requestTimeout time.Duration
	rebuildTimeout time.Duration
}

// NewRecommendHandler creates the handler. rebuilds may be nil, in which case
// asynchronous rebuilds answer 503.
func NewRecommendHandler(engine Engine, rebuilds RebuildRequester, requestTimeout, rebuildTimeout time.Duration) *RecommendHandler {
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}
	if rebuildTimeout <= 0 {
		rebuildTimeout = 30 * time.Minute
	}
	return &RecommendHandler{
		engine:         engine,
		rebuilds:       rebuilds,
		requestTimeout: requestTimeout,
		rebuildTimeout: rebuildTimeout,
	}
}

// Track handles POST /api/v1/recommendations/track.
// The device is taken from the User-Agent header.
func (h *RecommendHandler) Track(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body TrackRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&body); apiErr != nil {
		respondErrorWithDetails(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	event, err := h.engine.TrackInteraction(ctx, body.toEngine(auth.UserID(r.Context()), r.UserAgent()))
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, TrackResponse{
		Message:     "Interaction tracked successfully",
		Interaction: event,
	}, start)
}

// GetRecommendations handles GET /api/v1/recommendations.
// A user without history receives the most viewed products.
func (h *RecommendHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	results, err := h.engine.GetRecommendations(ctx, auth.UserID(r.Context()))
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	if results == nil {
		results = []recommend.Result{}
	}

	respondSuccess(w, r, http.StatusOK, results, start)
}

// GetProfile handles GET /api/v1/recommendations/profile and exposes the
// preference profile the ranking used.
func (h *RecommendHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := auth.UserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	profile, recent, err := h.engine.PreferenceProfile(ctx, userID)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	if recent == nil {
		recent = []models.RecentInteraction{}
	}

	respondSuccess(w, r, http.StatusOK, ProfileResponse{
		UserID:  userID,
		Profile: profile,
		Recent:  recent,
	}, start)
}

// RebuildSimilarities handles POST /api/v1/recommendations/similarities/rebuild.
//
// By default the rebuild runs inline and the report is returned. With
// ?async=true a rebuild request is published and 202 is returned at once.
func (h *RecommendHandler) RebuildSimilarities(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	async, err := parseBoolParam(r, "async")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "async must be a boolean", nil)
		return
	}

	if async {
		h.requestRebuild(w, r, start)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.rebuildTimeout)
	defer cancel()

	report, err := h.engine.RebuildSimilarities(ctx, recommend.TriggerAPI)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, report, start)
}

func (h *RecommendHandler) requestRebuild(w http.ResponseWriter, r *http.Request, start time.Time) {
	if h.rebuilds == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"Asynchronous rebuilds require the event bus", ErrEventsDisabled)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	reason := "api request by " + auth.UserID(r.Context())
	requestID, err := h.rebuilds.RequestRebuild(ctx, reason)
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"Failed to queue rebuild request", err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("rebuild_request_id", requestID).Msg("Similarity rebuild queued")
	respondSuccess(w, r, http.StatusAccepted, RebuildAcceptedResponse{
		RequestID: requestID,
		Message:   "Similarity rebuild queued",
	}, start)
}

// parseBoolParam reads an optional boolean query parameter.
func parseBoolParam(r *http.Request, key string) (bool, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}
