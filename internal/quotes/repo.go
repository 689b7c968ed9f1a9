package quote

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kimocks-netizen/caro-backend/pkg/db/models"
	"github.com/kimocks-netizen/caro-backend/pkg/enums"
)

// Repository wires together quote persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InsertQuote persists the quote header row.
func (r *Repository) InsertQuote(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Create(quote).Error; err != nil {
		return nil, err
	}
	return quote, nil
}

// InsertItems bulk-inserts the quote line items.
func (r *Repository) InsertItems(ctx context.Context, items []models.QuoteItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// DeleteQuote removes the quote row. Items cascade at the schema level.
func (r *Repository) DeleteQuote(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Quote{}, "id = ?", id).Error
}

// FindByTracking loads a quote with its items and their products.
func (r *Repository) FindByTracking(ctx context.Context, trackingCode string) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("quote_items.created_at ASC")
		}).
		Preload("Items.Product").
		First(&quote, "tracking_code = ?", trackingCode).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// FindByID loads a quote with its items and their products.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("quote_items.created_at ASC")
		}).
		Preload("Items.Product").
		First(&quote, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// ListAll returns every quote, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Quote, error) {
	var quotes []models.Quote
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

// StatusPatch captures the optional fields of a status update.
type StatusPatch struct {
	Status     *enums.QuoteStatus
	AdminNotes *string
}

// UpdateStatus patches the supplied fields and reports affected rows.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, patch StatusPatch) (int64, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.AdminNotes != nil {
		updates["admin_notes"] = *patch.AdminNotes
	}

	res := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// MarkIssued stamps the quote as issued with its validity window.
func (r *Repository) MarkIssued(ctx context.Context, id uuid.UUID, issuedAt time.Time, validUntil *time.Time) (int64, error) {
	updates := map[string]any{
		"status":     enums.QuoteStatusIssued,
		"issued_at":  issuedAt,
		"updated_at": issuedAt,
	}
	if validUntil != nil {
		updates["valid_until"] = *validUntil
	}

	res := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// UpdateItemPricing sets the unit and total price for a single line item.
func (r *Repository) UpdateItemPricing(ctx context.Context, itemID uuid.UUID, unitPrice, totalPrice decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.QuoteItem{}).
		Where("id = ?", itemID).
		Updates(map[string]any{
			"unit_price":  unitPrice,
			"total_price": totalPrice,
			"updated_at":  time.Now().UTC(),
		}).Error
}

// MarkVerifiedByEmail flips verified on every quote belonging to the email.
func (r *Repository) MarkVerifiedByEmail(ctx context.Context, email string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("email = ?", email).
		Updates(map[string]any{
			"verified":   true,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
