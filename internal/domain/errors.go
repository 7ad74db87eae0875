package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("username or email already exists")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrUnauthenticated    = errors.New("authentication required")

	// Token verification outcomes. Expired is deliberately distinguishable
	// from the other two (callers tell users to log in again vs. reject).
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")

	// Reset flow. Invalid and expired collapse into one outcome on purpose.
	ErrResetTokenInvalid = errors.New("password reset token is invalid or has expired")

	ErrSelfRoleChange = errors.New("cannot change your own role")
	ErrInvalidRole    = errors.New("invalid role")
)
