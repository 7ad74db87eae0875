package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationRecord is the append-only audit trail of expiry notifications.
// The scheduler also reads it back to keep re-runs of the same day idempotent.
type NotificationRecord struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          UserID       `gorm:"type:uuid;index;not null" json:"userId"`
	ResourceType    ResourceType `gorm:"type:text;not null" json:"resourceType"`
	ResourceID      uuid.UUID    `gorm:"type:uuid;not null" json:"resourceId"`
	DaysUntilExpiry int          `gorm:"not null" json:"daysUntilExpiry"`
	SentAt          time.Time    `gorm:"not null" json:"sentAt"`
}

func (NotificationRecord) TableName() string { return "notifications" }
