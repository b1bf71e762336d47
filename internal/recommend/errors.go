// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"errors"
	"fmt"
)

// Kind sentinels. Use errors.Is against these.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrComputation     = errors.New("computation error")
	ErrUpstream        = errors.New("upstream failure")

	// ErrRebuildInProgress is returned when a similarity rebuild is already running.
	ErrRebuildInProgress = errors.New("similarity rebuild already in progress")
)

// Error is a typed engine failure.
type Error struct {
	// Kind is one of the sentinels above.
	Kind error
	// Op names the failing operation, e.g. "track" or "rebuild".
	Op string
	// Err is the underlying cause. May be nil.
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func notFound(op, format string, args ...interface{}) error {
	return &Error{Kind: ErrNotFound, Op: op, Err: fmt.Errorf(format, args...)}
}

func invalidArgument(op, format string, args ...interface{}) error {
	return &Error{Kind: ErrInvalidArgument, Op: op, Err: fmt.Errorf(format, args...)}
}

func upstream(op string, err error) error {
	return &Error{Kind: ErrUpstream, Op: op, Err: err}
}

func computation(op string, err error) error {
	return &Error{Kind: ErrComputation, Op: op, Err: err}
}

// KindOf returns the sentinel carried by err, or nil for foreign errors.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrInvalidArgument, ErrComputation, ErrUpstream, ErrRebuildInProgress} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
