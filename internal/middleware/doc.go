// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package middleware provides the infrastructure HTTP middleware shared by every
route. All of them use chi's func(http.Handler) http.Handler shape.

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: latency by chi route pattern, in-flight gauge
  - SecurityHeaders: nosniff, frame denial, no-store, HSTS over TLS

Caller identity lives in the auth package; CORS and rate limiting are built
from go-chi/cors and go-chi/httprate in the api package.

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.SecurityHeaders)
*/
package middleware
