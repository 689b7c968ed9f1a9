package verification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kimocks-netizen/caro-backend/pkg/db/models"
)

// Repository wires together verification code persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InsertCode persists a freshly issued code.
func (r *Repository) InsertCode(ctx context.Context, code *models.VerificationCode) (*models.VerificationCode, error) {
	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		return nil, err
	}
	return code, nil
}

// FindRedeemable returns the oldest live code matching the contact and
// code value, or gorm.ErrRecordNotFound.
func (r *Repository) FindRedeemable(ctx context.Context, contact, code string, now time.Time) (*models.VerificationCode, error) {
	var row models.VerificationCode
	err := r.db.WithContext(ctx).
		Where("contact = ? AND code = ? AND used = false AND expires_at > ?", contact, code, now).
		Order("created_at ASC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// MarkUsed flips the used flag and reports whether the row was still live.
func (r *Repository) MarkUsed(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.VerificationCode{}).
		Where("id = ? AND used = false", id).
		Update("used", true)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// DeleteStale removes used or long-expired codes older than the cutoff.
func (r *Repository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("used = true OR expires_at < ?", cutoff).
		Delete(&models.VerificationCode{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
