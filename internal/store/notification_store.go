package store

import (
	"context"

	"github.com/btggithub/DAM/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationStore struct{ db *gorm.DB }

func (s *Store) Notifications() *NotificationStore { return &NotificationStore{db: s.DB} }

func (n *NotificationStore) Create(ctx context.Context, rec *domain.NotificationRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return n.db.WithContext(ctx).Create(rec).Error
}

// Exists reports whether this exact notification was already recorded. The
// scheduler consults it before dispatching so re-running a tick on the same
// day cannot duplicate an email.
func (n *NotificationStore) Exists(ctx context.Context, userID domain.UserID, rt domain.ResourceType, resourceID uuid.UUID, days int) (bool, error) {
	var count int64
	err := n.db.WithContext(ctx).Model(&domain.NotificationRecord{}).
		Where("user_id = ? AND resource_type = ? AND resource_id = ? AND days_until_expiry = ?",
			userID, rt, resourceID, days).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (n *NotificationStore) ListForUser(ctx context.Context, userID domain.UserID) ([]domain.NotificationRecord, error) {
	var out []domain.NotificationRecord
	if err := n.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sent_at desc").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
