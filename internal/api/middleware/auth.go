package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/finn/cloudcost-dashboard/internal/domain"
	"github.com/finn/cloudcost-dashboard/internal/service"
)

type contextKey string

const (
	profileKey contextKey = "profile"
)

// Auth validates the bearer token against the session store and attaches
// the resolved profile to the request context. Malformed and expired tokens
// collapse to the same generic 401: the caller only ever learns "not
// authenticated".
func Auth(sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}

			profile := sessions.ProfileForToken(parts[1])
			if profile == nil {
				log.Printf("ERROR [middleware.Auth] token did not resolve to a session")
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), profileKey, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetProfile returns the authenticated profile attached by Auth.
func GetProfile(ctx context.Context) (*domain.Profile, bool) {
	profile, ok := ctx.Value(profileKey).(*domain.Profile)
	return profile, ok
}

// RequireMinimumRole admits any role ranking at or above minimum: a guard
// requiring manager admits manager and admin.
func RequireMinimumRole(minimum domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, ok := GetProfile(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !profile.Role.MeetsMinimum(minimum) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyRole admits only the listed roles. This is plain membership,
// not the hierarchy: RequireAnyRole(manager) does not admit admin.
func RequireAnyRole(allowed ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, ok := GetProfile(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !profile.Role.MatchesAny(allowed...) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
