package store

import (
	"context"
	"errors"
	"time"

	"github.com/btggithub/DAM/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	err := u.db.WithContext(ctx).Create(usr).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Unique indexes on username/email are the authoritative guard; the
		// application-level pre-check is only a friendlier fast path.
		return domain.ErrConflict
	}
	return err
}

func (u *UserStore) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := u.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UsernameOrEmailTaken reports whether another user (excluding excludeID, if
// non-nil) already holds the username or email.
func (u *UserStore) UsernameOrEmailTaken(ctx context.Context, username, email string, excludeID *domain.UserID) (bool, error) {
	q := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("username = ? OR email = ?", username, email)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (u *UserStore) UpdateProfile(ctx context.Context, id domain.UserID, username, email string) error {
	err := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"username": username, "email": email}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	return err
}

func (u *UserStore) UpdatePassword(ctx context.Context, id domain.UserID, passwordHash string) error {
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (u *UserStore) SetRole(ctx context.Context, id domain.UserID, role domain.Role) error {
	res := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetResetToken stores the hash and expiry of a freshly issued reset secret,
// overwriting any pending one (at most one live secret per user).
func (u *UserStore) SetResetToken(ctx context.Context, id domain.UserID, tokenHash string, expiry time.Time) error {
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"reset_token_hash": tokenHash, "reset_token_expiry": expiry}).Error
}

// GetByResetToken finds the user holding an unexpired reset secret hash.
func (u *UserStore) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	var user domain.User
	err := u.db.WithContext(ctx).
		First(&user, "reset_token_hash = ? AND reset_token_expiry > ?", tokenHash, now).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ConsumeResetToken writes the new password hash and clears the pending reset
// in one update. The WHERE clause re-checks the token hash and expiry, so two
// racing consumers of the same secret cannot both win: the first update clears
// the hash and the second matches zero rows.
func (u *UserStore) ConsumeResetToken(ctx context.Context, id domain.UserID, tokenHash, passwordHash string, now time.Time) error {
	res := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND reset_token_hash = ? AND reset_token_expiry > ?", id, tokenHash, now).
		Updates(map[string]any{
			"password_hash":      passwordHash,
			"reset_token_hash":   nil,
			"reset_token_expiry": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
