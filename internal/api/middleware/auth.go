// Package middleware provides the HTTP middleware chain: request
// tracing and session-token authentication/authorization.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nhassan/blog-api/internal/api/shared"
	"github.com/nhassan/blog-api/internal/domain"
	"github.com/nhassan/blog-api/internal/redact"
	"github.com/nhassan/blog-api/internal/service/auth"
)

// AccessTokenCookie is the name of the httpOnly session cookie.
const AccessTokenCookie = "accessToken"

// AuthMiddleware provides JWT authentication for routes.
// Every request is verified independently; there is no session store
// and no server-side invalidation.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates the session token from the accessToken cookie
// or the Authorization bearer header and attaches the verified claims
// to the request context. Requests without a usable token are rejected
// with 401 before any handler runs.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch err {
			case auth.ErrExpiredToken, auth.ErrInvalidToken, auth.ErrTokenNotYetValid:
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		ctx := context.WithValue(r.Context(), shared.AuthClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates admin-only routes. It must run after Authenticate;
// an authenticated caller whose role is not admin gets 403.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if claims.Role != domain.RoleAdmin {
			shared.RespondWithError(w, r, http.StatusForbidden, "Forbidden: admin only")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetClaims extracts the verified session claims from the request context.
// Returns the claims and a boolean indicating if they were found.
func GetClaims(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(shared.AuthClaimsContextKey).(*auth.Claims)
	return claims, ok
}

// extractToken reads the session token from the accessToken cookie,
// falling back to an Authorization: Bearer header.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}
