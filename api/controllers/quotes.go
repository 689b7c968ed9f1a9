package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kimocks-netizen/caro-backend/api/responses"
	"github.com/kimocks-netizen/caro-backend/api/validators"
	quotesvc "github.com/kimocks-netizen/caro-backend/internal/quotes"
	pkgerrors "github.com/kimocks-netizen/caro-backend/pkg/errors"
	"github.com/kimocks-netizen/caro-backend/pkg/logger"
)

// SubmitQuote accepts a public quote request and returns its tracking identifiers.
func SubmitQuote(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload submitQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toSubmitInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "quote request submitted", result)
	}
}

// TrackQuote returns a quote with its items for a public tracking code.
func TrackQuote(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		trackingCode := validators.SanitizeString(chi.URLParam(r, "trackingCode"), 32)
		if trackingCode == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tracking code is required"))
			return
		}

		quote, err := svc.GetByTracking(r.Context(), trackingCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "quote found", quote)
	}
}

// AdminListQuotes returns every quote, newest first.
func AdminListQuotes(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		quotes, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "quotes listed", quotes)
	}
}

// AdminQuoteDetail returns a single quote by its internal id.
func AdminQuoteDetail(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		id, err := parseQuoteID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "quote found", quote)
	}
}

// AdminUpdateQuoteStatus patches the status and admin notes of a quote.
func AdminUpdateQuoteStatus(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		id, err := parseQuoteID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuoteStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.UpdateStatus(r.Context(), id, quotesvc.UpdateStatusInput{
			Status:     payload.Status,
			AdminNotes: payload.AdminNotes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "quote updated", quote)
	}
}

// AdminUpdateQuotePricing prices individual items on a quote.
func AdminUpdateQuotePricing(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		id, err := parseQuoteID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuotePricingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := payload.toPricingInputs()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.UpdatePricing(r.Context(), id, items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "quote priced", quote)
	}
}

// AdminIssueQuote finalizes a quote and notifies the buyer.
func AdminIssueQuote(svc quotesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		id, err := parseQuoteID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload issueQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := payload.toPricingInputs()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Issue(r.Context(), id, quotesvc.IssueInput{
			Items:      items,
			ValidUntil: payload.ValidUntil,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "quote issued", quote)
	}
}

func parseQuoteID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quote id")
	}
	return id, nil
}

type submitQuoteRequest struct {
	Name    string                   `json:"name" validate:"required"`
	Email   string                   `json:"email" validate:"required,email"`
	Phone   *string                  `json:"phone,omitempty"`
	Company *string                  `json:"company,omitempty"`
	Message *string                  `json:"message,omitempty"`
	Items   []submitQuoteItemRequest `json:"items" validate:"required,min=1,dive"`
}

type submitQuoteItemRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid4"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Variant   *string `json:"variant,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

func (r submitQuoteRequest) toSubmitInput() (quotesvc.SubmitInput, error) {
	items := make([]quotesvc.SubmitItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return quotesvc.SubmitInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		items = append(items, quotesvc.SubmitItemInput{
			ProductID: productID,
			Quantity:  item.Quantity,
			Variant:   item.Variant,
			Notes:     item.Notes,
		})
	}
	return quotesvc.SubmitInput{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Company: r.Company,
		Message: r.Message,
		Items:   items,
	}, nil
}

type updateQuoteStatusRequest struct {
	Status     *string `json:"status,omitempty"`
	AdminNotes *string `json:"admin_notes,omitempty"`
}

type quoteItemPricingRequest struct {
	ItemID    string          `json:"item_id" validate:"required,uuid4"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
}

type updateQuotePricingRequest struct {
	Items []quoteItemPricingRequest `json:"items" validate:"required,min=1,dive"`
}

func (r updateQuotePricingRequest) toPricingInputs() ([]quotesvc.ItemPricingInput, error) {
	return toPricingInputs(r.Items)
}

type issueQuoteRequest struct {
	Items      []quoteItemPricingRequest `json:"items,omitempty" validate:"omitempty,dive"`
	ValidUntil *time.Time                `json:"valid_until,omitempty"`
}

func (r issueQuoteRequest) toPricingInputs() ([]quotesvc.ItemPricingInput, error) {
	return toPricingInputs(r.Items)
}

func toPricingInputs(items []quoteItemPricingRequest) ([]quotesvc.ItemPricingInput, error) {
	out := make([]quotesvc.ItemPricingInput, 0, len(items))
	for _, item := range items {
		itemID, err := uuid.Parse(item.ItemID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id")
		}
		out = append(out, quotesvc.ItemPricingInput{
			ItemID:    itemID,
			UnitPrice: item.UnitPrice,
		})
	}
	return out, nil
}
