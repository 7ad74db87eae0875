package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/btggithub/DAM/internal/authz"
	"github.com/btggithub/DAM/internal/domain"
)

// bearerToken extracts the token from an Authorization header. The scheme
// must be exactly two space-separated parts with "Bearer" first.
func bearerToken(r *http.Request) (string, error) {
	raw := r.Header.Get("Authorization")
	if raw == "" {
		return "", domain.ErrUnauthenticated
	}
	parts := strings.Split(raw, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", domain.ErrTokenMalformed
	}
	return parts[1], nil
}

// RequireAuth verifies the bearer token and stores the claims in the request
// context. Missing token, malformed scheme, and expired vs. otherwise invalid
// tokens each get their own 401 body.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				writeMessage(w, http.StatusUnauthorized, "No authorization token provided")
			} else {
				writeMessage(w, http.StatusUnauthorized, "Token format is invalid")
			}
			return
		}

		claims, err := h.tokens.Verify(token)
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				writeMessage(w, http.StatusUnauthorized, "Token has expired")
			} else {
				writeMessage(w, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(authz.WithClaims(r.Context(), claims)))
	})
}

// OptionalAuth attaches claims when a valid bearer token is present and
// continues anonymously otherwise. Registration uses it: the token is only a
// privilege witness there, never a requirement.
func (h *Handler) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, err := bearerToken(r); err == nil {
			if claims, err := h.tokens.Verify(token); err == nil {
				r = r.WithContext(authz.WithClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole runs the authorization guard against the verified identity.
func (h *Handler) RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := authz.ClaimsFrom(r.Context())
			if err := authz.Authorize(claims, roles...); err != nil {
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
