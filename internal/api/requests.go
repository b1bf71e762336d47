// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package api

import (
	"time"

	"github.com/tomtom215/curator/internal/models"
	"github.com/tomtom215/curator/internal/recommend"
)

// TrackRequest is the body of POST /api/v1/recommendations/track.
//
//	{"product_id": "p-1001", "interaction_type": "view", "context": {"page": "search"}}
type TrackRequest struct {
	ProductID       string                 `json:"product_id" validate:"required,identifier"`
	InteractionType string                 `json:"interaction_type" validate:"required,interaction_type"`
	Context         map[string]interface{} `json:"context,omitempty" validate:"omitempty,max=32"`
	Timestamp       string                 `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// toEngine converts the validated body. Timestamp must already be valid RFC3339.
func (t *TrackRequest) toEngine(userID, device string) recommend.TrackRequest {
	req := recommend.TrackRequest{
		UserID:    userID,
		ProductID: t.ProductID,
		Type:      models.InteractionType(t.InteractionType),
		Device:    device,
		Context:   t.Context,
	}
	if t.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, t.Timestamp); err == nil {
			req.Timestamp = ts
		}
	}
	return req
}

// TrackResponse is the data of a successful track call.
type TrackResponse struct {
	Message     string                   `json:"message"`
	Interaction *models.InteractionEvent `json:"interaction"`
}

// ProfileResponse is the data of GET /api/v1/recommendations/profile.
type ProfileResponse struct {
	UserID  string                     `json:"user_id"`
	Profile *recommend.Profile         `json:"profile"`
	Recent  []models.RecentInteraction `json:"recent"`
}

// RebuildAcceptedResponse is the data of an asynchronous rebuild request.
type RebuildAcceptedResponse struct {
	RequestID string `json:"request_id"`
	Message   string `json:"message"`
}
