package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationCode is a short-lived code issued to confirm a contact email.
type VerificationCode struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Contact   string    `gorm:"column:contact;not null;index"`
	Code      string    `gorm:"column:code;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	Used      bool      `gorm:"column:used;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
