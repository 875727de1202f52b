// SSReports - Field Sales Checkin Analytics and Reporting
// Copyright 2026 SSReports contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ssreports/ssreports

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/ssreports/ssreports/internal/logging"
	"github.com/ssreports/ssreports/internal/models"
)

type contextKey string

// ClaimsContextKey is the request context key holding the validated *Claims.
const ClaimsContextKey contextKey = "claims"

// Middleware enforces JWT authentication on API routes.
type Middleware struct {
	jwtManager *JWTManager
	disabled   bool
}

// NewMiddleware creates authentication middleware. When disabled is true
// every request passes through with synthetic admin claims, which is only
// intended for local development.
func NewMiddleware(jwtManager *JWTManager, disabled bool) *Middleware {
	return &Middleware{
		jwtManager: jwtManager,
		disabled:   disabled,
	}
}

// Authenticate validates the Bearer token and stores the claims in the
// request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			claims := &Claims{Email: "dev@localhost", Name: "Development", Role: models.RoleAdmin}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ClaimsContextKey, claims)))
			return
		}

		token, ok := extractBearerToken(r)
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
			writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ClaimsContextKey, claims)))
	})
}

// RequireRole allows the request through only when the authenticated user
// holds one of the given roles.
func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeAuthError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeAuthError(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}

// ClaimsFromContext returns the authenticated user's claims, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*Claims)
	return claims
}

func extractBearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		logging.Error().Err(err).Msg("Failed to encode auth error response")
	}
}
