// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"errors"
	"fmt"
	"testing"
)

func TestError(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("handler: %w", upstream("rebuild", cause))

	if !errors.Is(err, ErrUpstream) {
		t.Error("expected ErrUpstream kind")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("unexpected ErrNotFound kind")
	}

	var typed *Error
	if !errors.As(err, &typed) || typed.Op != "rebuild" {
		t.Errorf("errors.As = %+v", typed)
	}

	if got, want := typed.Error(), "rebuild: upstream failure: connection reset"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{notFound("track", "product %s", "p1"), ErrNotFound},
		{invalidArgument("track", "missing"), ErrInvalidArgument},
		{computation("similarity", errors.New("nan")), ErrComputation},
		{&Error{Kind: ErrRebuildInProgress, Op: "rebuild"}, ErrRebuildInProgress},
		{errors.New("plain"), nil},
		{nil, nil},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}

	if got := (&Error{Kind: ErrRebuildInProgress, Op: "rebuild"}).Error(); got != "rebuild: similarity rebuild already in progress" {
		t.Errorf("Error() = %q", got)
	}
}
