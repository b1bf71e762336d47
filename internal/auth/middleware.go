// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/curator/internal/logging"
)

type contextKey string

const userIDContextKey contextKey = "user_id"

// UserIDHeader is set by the API gateway when tokens are verified upstream.
const UserIDHeader = "X-User-ID"

// maxUserIDLength matches the identifier limit of the validation package.
const maxUserIDLength = 128

// UnauthorizedFunc renders a 401 response.
type UnauthorizedFunc func(w http.ResponseWriter, r *http.Request, message string)

// Middleware resolves the calling user.
//
// With a JWTManager, a Bearer token (or the "token" cookie) is required and
// its subject becomes the user id. Without one, the X-User-ID header set by
// the gateway is trusted.
type Middleware struct {
	jwt          *JWTManager
	unauthorized UnauthorizedFunc
}

// NewMiddleware creates the identity middleware. jwtManager may be nil.
func NewMiddleware(jwtManager *JWTManager, unauthorized UnauthorizedFunc) *Middleware {
	if unauthorized == nil {
		unauthorized = func(w http.ResponseWriter, _ *http.Request, message string) {
			http.Error(w, message, http.StatusUnauthorized)
		}
	}
	return &Middleware{jwt: jwtManager, unauthorized: unauthorized}
}

// Authenticate rejects requests without a caller identity.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.resolve(r)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Request not authenticated")
			m.unauthorized(w, r, "Unauthorized: "+err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		ctx = logging.ContextWithUserID(ctx, userID)
		next(w, r.WithContext(ctx))
	}
}

func (m *Middleware) resolve(r *http.Request) (string, error) {
	if m.jwt == nil {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			return "", fmt.Errorf("missing %s header", UserIDHeader)
		}
		if len(userID) > maxUserIDLength {
			return "", fmt.Errorf("%s header too long", UserIDHeader)
		}
		return userID, nil
	}

	token, err := extractJWTToken(r)
	if err != nil {
		return "", err
	}
	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		return "", fmt.Errorf("invalid token")
	}
	return claims.Subject, nil
}

// extractJWTToken reads the Authorization header, falling back to the
// "token" cookie.
func extractJWTToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie("token")
		if err != nil {
			return "", fmt.Errorf("missing token")
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}

// UserID returns the authenticated user id, or "" outside Authenticate.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDContextKey).(string)
	return id
}

// ContextWithUserID attaches a user id as Authenticate would.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
