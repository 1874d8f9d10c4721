package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/himashiprops/estate-backend/utils"
)

type contextKey string

const claimsContextKey contextKey = "authClaims"

// Protect authenticates the request via the Authorization bearer token and
// stores the session claims on the request context. A missing signing
// secret is reported as a 500 misconfiguration, not a 401.
func Protect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			if errors.Is(err, utils.ErrNoSecret) {
				utils.RespondError(w, nil, "JWT_SECRET not configured", http.StatusInternalServerError)
				return
			}
			utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin allows only admin sessions through. Must run inside Protect.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Role != "admin" {
			utils.RespondError(w, nil, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// RequireUser allows only user sessions through. Must run inside Protect.
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Role != "user" {
			utils.RespondError(w, nil, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// ClaimsFromContext returns the session claims stored by Protect.
func ClaimsFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*utils.Claims)
	return claims, ok
}
