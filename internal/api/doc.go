// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package api exposes the recommendation engine over HTTP using the chi router.

Routes:

	GET  /api/v1/health/live                       liveness
	GET  /api/v1/health/ready                      database ping, record counts, breaker state
	POST /api/v1/recommendations/track             record an interaction
	GET  /api/v1/recommendations                   personalised results for the caller
	GET  /api/v1/recommendations/profile           the caller's preference profile
	POST /api/v1/recommendations/similarities/rebuild[?async=true]
	GET  /metrics                                  Prometheus

The recommendation routes require a caller identity (see package auth). The
device of a tracked interaction is the request User-Agent.

Every JSON response uses the models.APIResponse envelope:

	{"status":"success","data":[...],"metadata":{"timestamp":"...","query_time_ms":3}}
	{"status":"error","data":null,"metadata":{...},"error":{"code":"NOT_FOUND","message":"product p-9"}}

Engine errors map to statuses as follows: invalid argument 400, not found
404, rebuild already running 409, store unavailable or circuit open 503,
everything else 500.
*/
package api
