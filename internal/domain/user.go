package domain

import "time"

type User struct {
	ID           UserID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string `gorm:"type:citext;uniqueIndex:ux_users_username" json:"username"`
	Email        string `gorm:"type:citext;uniqueIndex:ux_users_email" json:"email"`
	PasswordHash string `gorm:"type:text;not null" json:"-"`
	Role         Role   `gorm:"type:text;not null;default:user" json:"role"`

	// Pending password reset. Both are set together and cleared together;
	// only the SHA-256 of the emailed secret is ever stored.
	ResetTokenHash   *string    `gorm:"type:text" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
