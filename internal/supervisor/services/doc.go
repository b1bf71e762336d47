// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package services provides suture.Service wrappers for the service's
long-running components.

Each wrapper turns a component lifecycle into suture's
Serve(ctx context.Context) error and implements fmt.Stringer so supervisor
logs name it.

  - HTTPServerService: ListenAndServe/Shutdown of an *http.Server
  - SimilarityService: optional rebuild on startup, then a rebuild ticker
  - EventRouterService: Start/Shutdown of the event router

The wrappers depend on small interfaces rather than concrete types, so
tests drive them with fakes.
*/
package services
