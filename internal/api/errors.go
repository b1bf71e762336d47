// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/curator/internal/database"
	"github.com/tomtom215/curator/internal/recommend"
)

// Error codes of the response envelope.
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	ErrCodeConflict            = "REBUILD_IN_PROGRESS"
	ErrCodeTooManyRequests     = "TOO_MANY_REQUESTS"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeComputation         = "COMPUTATION_ERROR"
	ErrCodeTimeout             = "TIMEOUT"
)

// ErrEventsDisabled is returned by async rebuild when no event bus is configured.
var ErrEventsDisabled = errors.New("event bus is not enabled")

// errorStatus maps an engine or store error to an HTTP status and code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, recommend.ErrInvalidArgument):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, recommend.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, recommend.ErrRebuildInProgress):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeTimeout
	case errors.Is(err, database.ErrCircuitOpen), errors.Is(err, recommend.ErrUpstream):
		return http.StatusServiceUnavailable, ErrCodeUpstreamUnavailable
	case errors.Is(err, recommend.ErrComputation):
		return http.StatusInternalServerError, ErrCodeComputation
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// errorMessage is the client-facing message for err. Causes of upstream and
// internal failures stay in the logs.
func errorMessage(status int, err error) string {
	switch status {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict:
		var engineErr *recommend.Error
		if errors.As(err, &engineErr) && engineErr.Err != nil {
			return engineErr.Err.Error()
		}
		return err.Error()
	case http.StatusServiceUnavailable:
		return "A backing store is unavailable, retry later"
	case http.StatusGatewayTimeout:
		return "The request timed out"
	default:
		return "Internal server error"
	}
}
