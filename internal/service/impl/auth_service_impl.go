package impl

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/btggithub/DAM/internal/authz"
	"github.com/btggithub/DAM/internal/domain"
	"github.com/btggithub/DAM/internal/dto"
	"github.com/btggithub/DAM/internal/observability/metrics"
	"github.com/btggithub/DAM/internal/service"
	"github.com/btggithub/DAM/internal/store"

	"github.com/google/uuid"
)

// ResetTokenTTL is the fixed validity window of an emailed reset secret.
const ResetTokenTTL = time.Hour

// ResetMailer is the slice of the dispatcher the auth service needs.
type ResetMailer interface {
	PasswordReset(ctx context.Context, to, resetURL string) error
}

type AuthServiceImpl struct {
	Store           *store.Store
	PasswordService service.PasswordService
	TService        service.TokenService
	Mailer          ResetMailer
	BaseURL         string

	now func() time.Time
}

func NewAuthServiceImpl(st *store.Store, passwordService service.PasswordService, tokenService service.TokenService, mailer ResetMailer, baseURL string) *AuthServiceImpl {
	return &AuthServiceImpl{
		Store:           st,
		PasswordService: passwordService,
		TService:        tokenService,
		Mailer:          mailer,
		BaseURL:         baseURL,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest, actor *authz.Claims) (*dto.AuthResponse, error) {
	result := "success"
	defer func() { metrics.AuthRegistrationsTotal.WithLabelValues(result).Inc() }()

	if r.Username == "" || r.Email == "" || r.Password == "" {
		result = "failure"
		return nil, ErrEmptyCredential
	}

	// Only an admin actor may mint another admin; everyone else is silently
	// downgraded rather than rejected.
	role := domain.RoleUser
	if r.Role == string(domain.RoleAdmin) && actor != nil && actor.Role == domain.RoleAdmin {
		role = domain.RoleAdmin
	}

	var out dto.AuthResponse
	err := a.Store.WithTx(ctx, func(tx *store.Store) error {
		// Friendly pre-check; the unique indexes remain the source of truth.
		taken, err := tx.Users().UsernameOrEmailTaken(ctx, r.Username, r.Email, nil)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrConflict
		}

		hash, err := a.PasswordService.Hash(r.Password)
		if err != nil {
			return err
		}

		now := a.now()
		u := &domain.User{
			ID:           uuid.New(),
			Username:     r.Username,
			Email:        r.Email,
			PasswordHash: hash,
			Role:         role,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}

		token, err := a.TService.Issue(u)
		if err != nil {
			return err
		}

		out = dto.AuthResponse{
			Message: "User registered successfully",
			Token:   token,
			User:    toUserResponse(u),
		}
		return nil
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("user registered", "user_id", out.User.ID, "role", role)
	return &out, nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.AuthResponse, error) {
	result := "success"
	defer func() { metrics.AuthLoginsTotal.WithLabelValues(result).Inc() }()

	if r.Email == "" || r.Password == "" {
		result = "failure"
		return nil, ErrEmptyCredential
	}

	// Unknown email and wrong password collapse into one outcome so the
	// response never reveals which part failed.
	user, err := a.Store.Users().GetByEmail(ctx, r.Email)
	if err != nil {
		result = "failure"
		return nil, domain.ErrInvalidCredentials
	}
	if !a.PasswordService.Verify(r.Password, user.PasswordHash) {
		result = "failure"
		return nil, domain.ErrInvalidCredentials
	}

	token, err := a.TService.Issue(user)
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("user logged in", "user_id", user.ID)
	return &dto.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    toUserResponse(user),
	}, nil
}

func (a *AuthServiceImpl) CurrentUser(ctx context.Context, id domain.UserID) (*dto.UserResponse, error) {
	user, err := a.Store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (a *AuthServiceImpl) UpdateProfile(ctx context.Context, id domain.UserID, r dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	err := a.Store.WithTx(ctx, func(tx *store.Store) error {
		taken, err := tx.Users().UsernameOrEmailTaken(ctx, r.Username, r.Email, &id)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrConflict
		}
		if err := tx.Users().UpdateProfile(ctx, id, r.Username, r.Email); err != nil {
			return err
		}
		user, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		resp = toUserResponse(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthServiceImpl) ChangePassword(ctx context.Context, id domain.UserID, r dto.ChangePasswordRequest) error {
	user, err := a.Store.Users().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !a.PasswordService.Verify(r.CurrentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	hash, err := a.PasswordService.Hash(r.NewPassword)
	if err != nil {
		return err
	}
	return a.Store.Users().UpdatePassword(ctx, id, hash)
}

// ForgotPassword issues a single-use reset secret and emails the link. The
// caller always gets the same outcome whether or not the email matched an
// account, and a mail transport failure is logged rather than surfaced, so
// responses stay byte-identical.
func (a *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	result := "success"
	defer func() { metrics.PasswordResetsTotal.WithLabelValues("requested", result).Inc() }()

	user, err := a.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil
		}
		result = "failure"
		return err
	}

	secret, secretHash, err := newResetSecret()
	if err != nil {
		result = "failure"
		return err
	}

	// Overwrites any pending secret: at most one live reset per user.
	expiry := a.now().Add(ResetTokenTTL)
	if err := a.Store.Users().SetResetToken(ctx, user.ID, secretHash, expiry); err != nil {
		result = "failure"
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", a.BaseURL, secret)
	if err := a.Mailer.PasswordReset(ctx, user.Email, resetURL); err != nil {
		slog.Error("password reset email failed", "user_id", user.ID, "error", err)
	}
	return nil
}

func (a *AuthServiceImpl) ResetPassword(ctx context.Context, rawSecret, newPassword string) error {
	result := "success"
	defer func() { metrics.PasswordResetsTotal.WithLabelValues("consumed", result).Inc() }()

	secretHash := hashResetSecret(rawSecret)
	user, err := a.Store.Users().GetByResetToken(ctx, secretHash, a.now())
	if err != nil {
		result = "failure"
		if err == domain.ErrNotFound {
			// Expired and never-issued are indistinguishable on purpose.
			return domain.ErrResetTokenInvalid
		}
		return err
	}

	hash, err := a.PasswordService.Hash(newPassword)
	if err != nil {
		result = "failure"
		return err
	}

	// Single conditional update: new hash in, reset token out. A concurrent
	// consumer of the same secret loses the race here and matches no rows.
	if err := a.Store.Users().ConsumeResetToken(ctx, user.ID, secretHash, hash, a.now()); err != nil {
		result = "failure"
		if err == domain.ErrNotFound {
			return domain.ErrResetTokenInvalid
		}
		return err
	}

	slog.Info("password reset consumed", "user_id", user.ID)
	return nil
}

func (a *AuthServiceImpl) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := a.Store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out, nil
}

func (a *AuthServiceImpl) UpdateUserRole(ctx context.Context, actor authz.Claims, r dto.UpdateRoleRequest) error {
	role := domain.Role(r.Role)
	if !role.Valid() {
		return domain.ErrInvalidRole
	}
	targetID, err := uuid.Parse(r.UserID)
	if err != nil {
		return domain.ErrInvalidRole
	}
	// Rejected before any mutation: even an admin may not change their own
	// role, to avoid accidental lockout.
	if targetID == actor.UserID {
		return domain.ErrSelfRoleChange
	}
	if err := a.Store.Users().SetRole(ctx, targetID, role); err != nil {
		return err
	}
	slog.Info("user role updated", "user_id", targetID, "role", role, "actor_id", actor.UserID)
	return nil
}

// ====== Helpers ======

func toUserResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// newResetSecret returns a fresh 256-bit secret and the SHA-256 hex digest
// that gets persisted. The secret itself is high entropy and single use, so a
// fast deterministic hash is enough here; the slow salted hash is reserved
// for passwords.
func newResetSecret() (secret, secretHash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	secret = hex.EncodeToString(buf)
	return secret, hashResetSecret(secret), nil
}

func hashResetSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
