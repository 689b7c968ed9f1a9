package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a catalog listing buyers can request quotes for.
type Product struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string         `gorm:"column:title;not null"`
	Slug        string         `gorm:"column:slug;not null;uniqueIndex"`
	Description *string        `gorm:"column:description"`
	Category    *string        `gorm:"column:category;index"`
	ImageURL    pq.StringArray `gorm:"column:image_url;type:text[];not null;default:ARRAY[]::text[]"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	Variants    pq.StringArray `gorm:"column:variants;type:text[];not null;default:ARRAY[]::text[]"`
	Available   bool           `gorm:"column:available;not null;default:true"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
