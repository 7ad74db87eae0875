package service

import (
	"context"

	"github.com/btggithub/DAM/internal/authz"
	"github.com/btggithub/DAM/internal/domain"
	"github.com/btggithub/DAM/internal/dto"
)

type AuthService interface {
	// Register creates a user. actor is the optional verified identity of the
	// caller; a requested admin role is honored only when actor is an admin.
	Register(ctx context.Context, r dto.RegisterRequest, actor *authz.Claims) (*dto.AuthResponse, error)
	Login(ctx context.Context, r dto.LoginRequest) (*dto.AuthResponse, error)
	CurrentUser(ctx context.Context, id domain.UserID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, id domain.UserID, r dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, id domain.UserID, r dto.ChangePasswordRequest) error

	// ForgotPassword never reveals whether the email matched an account.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawSecret, newPassword string) error

	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	UpdateUserRole(ctx context.Context, actor authz.Claims, r dto.UpdateRoleRequest) error
}
