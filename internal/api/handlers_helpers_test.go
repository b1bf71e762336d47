// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/curator/internal/database"
	"github.com/tomtom215/curator/internal/logging"
	"github.com/tomtom215/curator/internal/recommend"
)

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"line\nbreak", `line\x0abreak`},
		{"tab\there", `tab\x09here`},
		{"del\x7f", `del\x7f`},
		{"unicode ü", "unicode ü"},
	}

	for _, tt := range tests {
		if got := sanitizeLogValue(tt.in); got != tt.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRespondSuccess(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(logging.ContextWithRequestID(req.Context(), "req-123"))
	w := httptest.NewRecorder()

	respondSuccess(w, req, http.StatusCreated, map[string]string{"k": "v"}, time.Now())

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}

	var data map[string]string
	resp := decodeResponse(t, w, &data)
	if resp.Status != "success" {
		t.Errorf("Status = %q, want success", resp.Status)
	}
	if resp.Metadata.RequestID != "req-123" {
		t.Errorf("RequestID = %q, want req-123", resp.Metadata.RequestID)
	}
	if data["k"] != "v" {
		t.Errorf("data = %v", data)
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		code    string
		message string
		err     error
	}{
		{"bad request", http.StatusBadRequest, ErrCodeBadRequest, "Invalid input", nil},
		{"internal with cause", http.StatusInternalServerError, ErrCodeInternalError, "Internal server error", errBoom},
		{"unauthorized", http.StatusUnauthorized, ErrCodeUnauthorized, "missing X-User-ID header", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			respondError(w, httptest.NewRequest(http.MethodGet, "/x", nil), tt.status, tt.code, tt.message, tt.err)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			resp := decodeResponse(t, w, nil)
			if resp.Status != "error" {
				t.Errorf("Status = %q, want error", resp.Status)
			}
			if resp.Error == nil {
				t.Fatal("Error is nil")
			}
			if resp.Error.Code != tt.code || resp.Error.Message != tt.message {
				t.Errorf("Error = %+v, want %s/%s", resp.Error, tt.code, tt.message)
			}
			if tt.err != nil && strings.Contains(w.Body.String(), tt.err.Error()) {
				t.Error("error cause leaked into the response")
			}
		})
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid", &recommend.Error{Kind: recommend.ErrInvalidArgument, Op: "track"}, http.StatusBadRequest, ErrCodeBadRequest},
		{"not found", &recommend.Error{Kind: recommend.ErrNotFound, Op: "track"}, http.StatusNotFound, ErrCodeNotFound},
		{"in progress", &recommend.Error{Kind: recommend.ErrRebuildInProgress, Op: "rebuild"}, http.StatusConflict, ErrCodeConflict},
		{"upstream", &recommend.Error{Kind: recommend.ErrUpstream, Op: "recommend", Err: errBoom}, http.StatusServiceUnavailable, ErrCodeUpstreamUnavailable},
		{"breaker open", fmt.Errorf("query: %w", database.ErrCircuitOpen), http.StatusServiceUnavailable, ErrCodeUpstreamUnavailable},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, ErrCodeTimeout},
		{"upstream deadline", &recommend.Error{Kind: recommend.ErrUpstream, Op: "recommend", Err: fmt.Errorf("recent interactions: %w", context.DeadlineExceeded)}, http.StatusGatewayTimeout, ErrCodeTimeout},
		{"computation", &recommend.Error{Kind: recommend.ErrComputation, Op: "rebuild"}, http.StatusInternalServerError, ErrCodeComputation},
		{"foreign", errBoom, http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := errorStatus(tt.err)
			if status != tt.wantStatus || code != tt.wantCode {
				t.Errorf("errorStatus() = %d/%s, want %d/%s", status, code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	notFound := &recommend.Error{Kind: recommend.ErrNotFound, Op: "track", Err: fmt.Errorf("product p-9 not found")}
	if got := errorMessage(http.StatusNotFound, notFound); got != "product p-9 not found" {
		t.Errorf("errorMessage(404) = %q, want the cause", got)
	}
	if got := errorMessage(http.StatusInternalServerError, errBoom); got != "Internal server error" {
		t.Errorf("errorMessage(500) = %q", got)
	}
	if got := errorMessage(http.StatusServiceUnavailable, errBoom); strings.Contains(got, "boom") {
		t.Errorf("errorMessage(503) = %q leaks the cause", got)
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"name":"x"}`, ""},
		{"trailing whitespace", "{\"name\":\"x\"}\n", ""},
		{"empty", "", "empty"},
		{"whitespace only", " \n\t", "empty"},
		{"oversized", `{"name":"` + strings.Repeat("x", maxBodyBytes) + `"}`, "exceeds"},
		{"truncated", `{"name":"x"`, "invalid JSON"},
		{"unknown field", `{"name":"x","extra":1}`, "invalid JSON"},
		{"wrong type", `{"name":1}`, "invalid JSON"},
		{"second object", `{"name":"x"} {"name":"y"}`, "single JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := decodeJSON(httptest.NewRecorder(), req, &dst)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("decodeJSON() error = %v", err)
				}
				if dst.Name != "x" {
					t.Errorf("Name = %q, want x", dst.Name)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("decodeJSON() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseBoolParam(t *testing.T) {
	tests := []struct {
		query   string
		want    bool
		wantErr bool
	}{
		{"", false, false},
		{"async=true", true, false},
		{"async=1", true, false},
		{"async=false", false, false},
		{"async=yes", false, true},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/?"+tt.query, nil)
		got, err := parseBoolParam(req, "async")
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseBoolParam(%q) = %v, %v", tt.query, got, err)
		}
	}
}
