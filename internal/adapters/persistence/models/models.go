package models

import (
	"time"

	"gorm.io/gorm"
)

// StoredCredential represents stored_credentials table.
// One row per browser session; SessionKey is a SHA-256 of the session id
// so the table never holds the raw cookie value.
type StoredCredential struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SessionKey string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	Token      string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt  time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StoredCredential) TableName() string {
	return "stored_credentials"
}

// AutoMigrate creates the portal's tables if they do not exist
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&StoredCredential{},
	)
}
