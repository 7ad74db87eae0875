// Package authz holds the verified request identity and the role guard.
// The guard is a pure function; the HTTP layer translates its result
// (nil claims -> 401, role mismatch -> 403).
package authz

import (
	"context"

	"github.com/btggithub/DAM/internal/domain"
)

// Claims is the verified identity carried by a bearer token.
type Claims struct {
	UserID   domain.UserID
	Username string
	Role     domain.Role
}

// Authorize allows the identity when allowed is empty (any authenticated
// caller) or when its role is in the allowed set.
func Authorize(c *Claims, allowed ...domain.Role) error {
	if c == nil {
		return domain.ErrUnauthenticated
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, r := range allowed {
		if c.Role == r {
			return nil
		}
	}
	return domain.ErrForbidden
}

// Local context key so other packages don't need to import each other.
type claimsKey struct{}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}
