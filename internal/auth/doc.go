// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package auth resolves the identity of API callers.

Curator does not issue sessions. Users authenticate against an external
service, and every request arrives either with an HS256 JWT signed with the
shared security.jwt_secret, or through a gateway that already verified the
caller and forwards the id in X-User-ID.

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	mw := auth.NewMiddleware(jwtManager, nil)
	r.Get("/", mw.Authenticate(handler))

	// inside the handler
	userID := auth.UserID(r.Context())

Token validation rejects any algorithm other than HS256, requires exp, checks
iss when security.jwt_issuer is set and requires a non-empty sub.
*/
package auth
