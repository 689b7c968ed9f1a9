package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kimocks-netizen/caro-backend/pkg/enums"
)

// Quote represents a buyer's request for pricing on a set of products.
type Quote struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TrackingCode string            `gorm:"column:tracking_code;not null;uniqueIndex"`
	QuoteNumber  *string           `gorm:"column:quote_number;uniqueIndex"`
	Name         string            `gorm:"column:name;not null"`
	Email        string            `gorm:"column:email;not null;index"`
	Phone        *string           `gorm:"column:phone"`
	Company      *string           `gorm:"column:company"`
	Message      *string           `gorm:"column:message"`
	Status       enums.QuoteStatus `gorm:"column:status;type:quote_status;not null;default:pending"`
	Verified     bool              `gorm:"column:verified;not null;default:false"`
	ValidUntil   *time.Time        `gorm:"column:valid_until"`
	IssuedAt     *time.Time        `gorm:"column:issued_at"`
	AdminNotes   *string           `gorm:"column:admin_notes"`
	Items        []QuoteItem       `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
