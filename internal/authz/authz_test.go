package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/btggithub/DAM/internal/domain"

	"github.com/google/uuid"
)

func TestAuthorize(t *testing.T) {
	user := &Claims{UserID: uuid.New(), Username: "alice", Role: domain.RoleUser}
	admin := &Claims{UserID: uuid.New(), Username: "root", Role: domain.RoleAdmin}

	tests := []struct {
		name    string
		claims  *Claims
		allowed []domain.Role
		want    error
	}{
		{"nil claims", nil, []domain.Role{domain.RoleUser}, domain.ErrUnauthenticated},
		{"no restriction", user, nil, nil},
		{"role allowed", admin, []domain.Role{domain.RoleAdmin}, nil},
		{"role among several", user, []domain.Role{domain.RoleAdmin, domain.RoleUser}, nil},
		{"role denied", user, []domain.Role{domain.RoleAdmin}, domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Authorize(tt.claims, tt.allowed...); !errors.Is(err, tt.want) && err != tt.want {
				t.Fatalf("Authorize = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClaimsContextRoundtrip(t *testing.T) {
	c := &Claims{UserID: uuid.New(), Username: "alice", Role: domain.RoleUser}
	ctx := WithClaims(context.Background(), c)

	got, ok := ClaimsFrom(ctx)
	if !ok || got != c {
		t.Fatalf("ClaimsFrom = %v, %v", got, ok)
	}

	if got, ok := ClaimsFrom(context.Background()); ok || got != nil {
		t.Fatal("empty context must yield no claims")
	}
}
