// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/curator/internal/auth"
	"github.com/tomtom215/curator/internal/database"
	"github.com/tomtom215/curator/internal/models"
	"github.com/tomtom215/curator/internal/recommend"
)

// fakeEngine records calls and returns canned results.
type fakeEngine struct {
	mu sync.Mutex

	tracked  []recommend.TrackRequest
	trackErr error

	results []recommend.Result
	recErr  error

	profile    *recommend.Profile
	recent     []models.RecentInteraction
	profileErr error

	report     *recommend.RebuildReport
	rebuildErr error
	triggers   []string
}

func (f *fakeEngine) TrackInteraction(_ context.Context, req recommend.TrackRequest) (*models.InteractionEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.trackErr != nil {
		return nil, f.trackErr
	}
	f.tracked = append(f.tracked, req)
	ts := req.Timestamp
	if ts.IsZero() {
		ts = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	return &models.InteractionEvent{
		ID:        "evt-1",
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Type:      req.Type,
		Timestamp: ts,
		Context:   req.Context,
	}, nil
}

func (f *fakeEngine) GetRecommendations(_ context.Context, _ string) ([]recommend.Result, error) {
	return f.results, f.recErr
}

func (f *fakeEngine) PreferenceProfile(_ context.Context, _ string) (*recommend.Profile, []models.RecentInteraction, error) {
	return f.profile, f.recent, f.profileErr
}

func (f *fakeEngine) RebuildSimilarities(_ context.Context, trigger string) (*recommend.RebuildReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, trigger)
	if f.rebuildErr != nil {
		return nil, f.rebuildErr
	}
	return f.report, nil
}

func (f *fakeEngine) lastTracked() recommend.TrackRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.tracked) == 0 {
		return recommend.TrackRequest{}
	}
	return f.tracked[len(f.tracked)-1]
}

type fakeRequester struct {
	id      string
	err     error
	reasons []string
}

func (f *fakeRequester) RequestRebuild(_ context.Context, reason string) (string, error) {
	f.reasons = append(f.reasons, reason)
	return f.id, f.err
}

type fakeHealthStore struct {
	pingErr   error
	countsErr error
	counts    *database.RecordCounts
	breaker   string
}

func (f *fakeHealthStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeHealthStore) RecordCounts(context.Context) (*database.RecordCounts, error) {
	if f.countsErr != nil {
		return nil, f.countsErr
	}
	return f.counts, nil
}

func (f *fakeHealthStore) BreakerState() string {
	if f.breaker == "" {
		return "closed"
	}
	return f.breaker
}

type fakeRebuildStatus struct {
	last       *recommend.RebuildReport
	inProgress bool
}

func (f *fakeRebuildStatus) LastRebuild() *recommend.RebuildReport { return f.last }
func (f *fakeRebuildStatus) RebuildInProgress() bool               { return f.inProgress }

type fakeRouterStatus bool

func (f fakeRouterStatus) IsRunning() bool { return bool(f) }

var errBoom = errors.New("boom")

// newUserRequest builds a request as the identity middleware would leave it.
func newUserRequest(method, target, body, userID string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req = req.WithContext(auth.ContextWithUserID(req.Context(), userID))
	}
	return req
}

// decodeResponse decodes the envelope and, when data is non-nil, its data field.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, data interface{}) models.APIResponse {
	t.Helper()

	var raw struct {
		Status   string           `json:"status"`
		Data     json.RawMessage  `json:"data"`
		Metadata models.Metadata  `json:"metadata"`
		Error    *models.APIError `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("Failed to decode response body %q: %v", w.Body.String(), err)
	}
	if data != nil && len(raw.Data) > 0 && string(raw.Data) != "null" {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("Failed to decode data %s: %v", raw.Data, err)
		}
	}
	return models.APIResponse{
		Status:   raw.Status,
		Metadata: raw.Metadata,
		Error:    raw.Error,
	}
}
