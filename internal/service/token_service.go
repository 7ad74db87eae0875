package service

import (
	"github.com/btggithub/DAM/internal/authz"
	"github.com/btggithub/DAM/internal/domain"
)

type TokenService interface {
	Issue(user *domain.User) (string, error)
	// Verify returns domain.ErrTokenMalformed, ErrTokenExpired or
	// ErrTokenSignature so callers can tell the cases apart.
	Verify(token string) (*authz.Claims, error)
}
