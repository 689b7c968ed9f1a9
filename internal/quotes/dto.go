package quote

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kimocks-netizen/caro-backend/pkg/db/models"
)

// QuoteDTO is the quote payload returned to clients.
type QuoteDTO struct {
	ID           uuid.UUID      `json:"id"`
	TrackingCode string         `json:"tracking_code"`
	QuoteNumber  *string        `json:"quote_number,omitempty"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        *string        `json:"phone,omitempty"`
	Company      *string        `json:"company,omitempty"`
	Message      *string        `json:"message,omitempty"`
	Status       string         `json:"status"`
	Verified     bool           `json:"verified"`
	ValidUntil   *time.Time     `json:"valid_until,omitempty"`
	IssuedAt     *time.Time     `json:"issued_at,omitempty"`
	AdminNotes   *string        `json:"admin_notes,omitempty"`
	Items        []QuoteItemDTO `json:"items"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// QuoteItemDTO is a single priced or unpriced line on a quote.
type QuoteItemDTO struct {
	ID         uuid.UUID          `json:"id"`
	ProductID  uuid.UUID          `json:"product_id"`
	Quantity   int                `json:"quantity"`
	Variant    *string            `json:"variant,omitempty"`
	Notes      *string            `json:"notes,omitempty"`
	UnitPrice  *decimal.Decimal   `json:"unit_price,omitempty"`
	TotalPrice *decimal.Decimal   `json:"total_price,omitempty"`
	Product    *ProductSummaryDTO `json:"product,omitempty"`
}

// ProductSummaryDTO surfaces the catalog fields shown alongside quote items.
type ProductSummaryDTO struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Slug     string    `json:"slug"`
	Category *string   `json:"category,omitempty"`
	ImageURL []string  `json:"image_url"`
}

// SubmitResult carries the public identifiers handed back after submission.
type SubmitResult struct {
	TrackingCode string  `json:"tracking_code"`
	QuoteNumber  *string `json:"quote_number,omitempty"`
}

// NewQuoteDTO builds a DTO from the persisted model.
func NewQuoteDTO(quote *models.Quote) *QuoteDTO {
	dto := &QuoteDTO{
		ID:           quote.ID,
		TrackingCode: quote.TrackingCode,
		QuoteNumber:  quote.QuoteNumber,
		Name:         quote.Name,
		Email:        quote.Email,
		Phone:        quote.Phone,
		Company:      quote.Company,
		Message:      quote.Message,
		Status:       quote.Status.String(),
		Verified:     quote.Verified,
		ValidUntil:   quote.ValidUntil,
		IssuedAt:     quote.IssuedAt,
		AdminNotes:   quote.AdminNotes,
		Items:        make([]QuoteItemDTO, 0, len(quote.Items)),
		CreatedAt:    quote.CreatedAt,
		UpdatedAt:    quote.UpdatedAt,
	}

	for _, item := range quote.Items {
		itemDTO := QuoteItemDTO{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			Variant:    item.Variant,
			Notes:      item.Notes,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
		if item.Product != nil {
			itemDTO.Product = &ProductSummaryDTO{
				ID:       item.Product.ID,
				Title:    item.Product.Title,
				Slug:     item.Product.Slug,
				Category: item.Product.Category,
				ImageURL: append([]string{}, item.Product.ImageURL...),
			}
		}
		dto.Items = append(dto.Items, itemDTO)
	}

	return dto
}

// NewQuoteDTOs maps a list of quotes.
func NewQuoteDTOs(quotes []models.Quote) []QuoteDTO {
	out := make([]QuoteDTO, 0, len(quotes))
	for i := range quotes {
		out = append(out, *NewQuoteDTO(&quotes[i]))
	}
	return out
}
