package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteItem is a single product line captured on a quote request.
type QuoteItem struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID    uuid.UUID        `gorm:"column:quote_id;type:uuid;not null;index"`
	ProductID  uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	Quantity   int              `gorm:"column:quantity;not null;default:1"`
	Variant    *string          `gorm:"column:variant"`
	Notes      *string          `gorm:"column:notes"`
	UnitPrice  *decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
	TotalPrice *decimal.Decimal `gorm:"column:total_price;type:numeric(12,2)"`
	Product    *Product         `gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
