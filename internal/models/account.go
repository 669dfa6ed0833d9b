package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is the authenticated principal. Its ID is the owner id that
// scopes every profile and document.
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        *string   `gorm:"type:text;uniqueIndex" json:"email,omitempty"`
	PasswordHash string    `gorm:"type:text" json:"-"`
	Anonymous    bool      `gorm:"not null;default:false" json:"anonymous"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Account) TableName() string {
	return "accounts"
}
