package quote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kimocks-netizen/caro-backend/pkg/db"
	"github.com/kimocks-netizen/caro-backend/pkg/db/models"
	"github.com/kimocks-netizen/caro-backend/pkg/enums"
	pkgerrors "github.com/kimocks-netizen/caro-backend/pkg/errors"
	"github.com/kimocks-netizen/caro-backend/pkg/logger"
	"github.com/kimocks-netizen/caro-backend/pkg/mailer"
)

const submitInsertAttempts = 3

// Service exposes the quote lifecycle operations.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
	GetByTracking(ctx context.Context, trackingCode string) (*QuoteDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*QuoteDTO, error)
	ListAll(ctx context.Context) ([]QuoteDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*QuoteDTO, error)
	UpdatePricing(ctx context.Context, id uuid.UUID, items []ItemPricingInput) (*QuoteDTO, error)
	Issue(ctx context.Context, id uuid.UUID, input IssueInput) (*QuoteDTO, error)
}

// SubmitInput holds the validated payload for a quote submission.
type SubmitInput struct {
	Name    string
	Email   string
	Phone   *string
	Company *string
	Message *string
	Items   []SubmitItemInput
}

// SubmitItemInput is a requested product line.
type SubmitItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Variant   *string
	Notes     *string
}

// UpdateStatusInput carries the optional fields of a status patch.
type UpdateStatusInput struct {
	Status     *string
	AdminNotes *string
}

// ItemPricingInput prices a single existing quote item.
type ItemPricingInput struct {
	ItemID    uuid.UUID
	UnitPrice decimal.Decimal
}

// IssueInput finalizes a quote for the buyer.
type IssueInput struct {
	Items      []ItemPricingInput
	ValidUntil *time.Time
}

type quoteStore interface {
	InsertQuote(ctx context.Context, quote *models.Quote) (*models.Quote, error)
	InsertItems(ctx context.Context, items []models.QuoteItem) error
	DeleteQuote(ctx context.Context, id uuid.UUID) error
	FindByTracking(ctx context.Context, trackingCode string) (*models.Quote, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	ListAll(ctx context.Context) ([]models.Quote, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, patch StatusPatch) (int64, error)
	MarkIssued(ctx context.Context, id uuid.UUID, issuedAt time.Time, validUntil *time.Time) (int64, error)
	UpdateItemPricing(ctx context.Context, itemID uuid.UUID, unitPrice, totalPrice decimal.Decimal) error
}

type productChecker interface {
	FindExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

type verificationIssuer interface {
	Issue(ctx context.Context, email, trackingCode string, policy mailer.FailureMode) (uuid.UUID, error)
}

type quoteMailer interface {
	SendQuoteIssued(ctx context.Context, msg mailer.QuoteIssuedEmail) error
}

type service struct {
	repo     quoteStore
	products productChecker
	verifier verificationIssuer
	mail     quoteMailer
	logg     *logger.Logger
}

// NewService constructs a quote service instance.
func NewService(repo quoteStore, products productChecker, verifier verificationIssuer, mail quoteMailer, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quote repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product checker required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("verification issuer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, products: products, verifier: verifier, mail: mail, logg: logg}, nil
}

// Submit validates and persists a quote request, then kicks off email
// verification as a best-effort side effect.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
	}

	if err := s.ensureProductsExist(ctx, input.Items); err != nil {
		return nil, err
	}

	created, err := s.insertWithRetry(ctx, name, email, input)
	if err != nil {
		return nil, err
	}

	items := make([]models.QuoteItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, models.QuoteItem{
			QuoteID:   created.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Variant:   item.Variant,
			Notes:     item.Notes,
		})
	}
	if err := s.repo.InsertItems(ctx, items); err != nil {
		// No cross-table transaction here: compensate by deleting the
		// header so a half-written quote never becomes visible.
		if delErr := s.repo.DeleteQuote(ctx, created.ID); delErr != nil {
			s.logg.Error(s.logg.WithField(ctx, "quote_id", created.ID.String()), "compensating quote delete failed", delErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert quote items")
	}

	// Verification is best-effort on this path; a mail outage must not
	// lose the submission.
	if _, issueErr := s.verifier.Issue(ctx, email, created.TrackingCode, mailer.FailSwallow); issueErr != nil {
		s.logg.Warn(s.logg.WithField(ctx, "tracking_code", created.TrackingCode), "verification issue failed after submit")
	}

	return &SubmitResult{TrackingCode: created.TrackingCode, QuoteNumber: created.QuoteNumber}, nil
}

func (s *service) ensureProductsExist(ctx context.Context, items []SubmitItemInput) error {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	existing, err := s.products.FindExistingIDs(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check products")
	}

	found := make(map[uuid.UUID]struct{}, len(existing))
	for _, id := range existing {
		found[id] = struct{}{}
	}

	missing := make([]string, 0)
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "one or more products do not exist").
			WithDetails(map[string]any{"missing_product_ids": missing})
	}
	return nil
}

func (s *service) insertWithRetry(ctx context.Context, name, email string, input SubmitInput) (*models.Quote, error) {
	var lastErr error
	for attempt := 0; attempt < submitInsertAttempts; attempt++ {
		trackingCode, err := GenerateTrackingCode()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate tracking code")
		}
		quoteNumber, err := GenerateQuoteNumber(time.Now())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate quote number")
		}

		record := &models.Quote{
			TrackingCode: trackingCode,
			QuoteNumber:  &quoteNumber,
			Name:         name,
			Email:        email,
			Phone:        input.Phone,
			Company:      input.Company,
			Message:      input.Message,
			Status:       enums.QuoteStatusPending,
		}

		created, err := s.repo.InsertQuote(ctx, record)
		if err == nil {
			return created, nil
		}
		if !db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert quote")
		}
		lastErr = err
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, lastErr, "could not allocate a unique tracking code")
}

// GetByTracking loads the quote the buyer sees on the public tracker.
func (s *service) GetByTracking(ctx context.Context, trackingCode string) (*QuoteDTO, error) {
	code := strings.TrimSpace(trackingCode)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking code is required")
	}

	quote, err := s.repo.FindByTracking(ctx, code)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load quote")
	}
	return NewQuoteDTO(quote), nil
}

// GetByID loads a quote for the admin views.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*QuoteDTO, error) {
	quote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load quote")
	}
	return NewQuoteDTO(quote), nil
}

// ListAll returns every quote, newest first.
func (s *service) ListAll(ctx context.Context) ([]QuoteDTO, error) {
	quotes, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list quotes")
	}
	return NewQuoteDTOs(quotes), nil
}

// UpdateStatus patches status and/or admin notes after validating inputs.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*QuoteDTO, error) {
	if input.Status == nil && input.AdminNotes == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	patch := StatusPatch{AdminNotes: input.AdminNotes}
	if input.Status != nil {
		status, err := enums.ParseQuoteStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid quote status").
				WithDetails(map[string]any{"status": *input.Status, "allowed": enums.QuoteStatuses()})
		}
		patch.Status = &status
	}

	rows, err := s.repo.UpdateStatus(ctx, id, patch)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update quote status")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
	}
	if rows > 1 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "status update touched multiple quotes")
	}

	return s.GetByID(ctx, id)
}

// UpdatePricing prices existing items and returns the refreshed quote.
func (s *service) UpdatePricing(ctx context.Context, id uuid.UUID, items []ItemPricingInput) (*QuoteDTO, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item price is required")
	}

	quote, err := s.loadForPricing(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyPricing(ctx, quote, items); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Issue marks the quote issued, applies any supplied pricing, and
// notifies the buyer.
func (s *service) Issue(ctx context.Context, id uuid.UUID, input IssueInput) (*QuoteDTO, error) {
	quote, err := s.loadForPricing(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.MarkIssued(ctx, id, time.Now().UTC(), input.ValidUntil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: issue quote")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
	}

	if len(input.Items) > 0 {
		if err := s.applyPricing(ctx, quote, input.Items); err != nil {
			return nil, err
		}
	}

	dto, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.mail != nil {
		msg := mailer.QuoteIssuedEmail{
			To:           dto.Email,
			TrackingCode: dto.TrackingCode,
			ValidUntil:   dto.ValidUntil,
		}
		if dto.QuoteNumber != nil {
			msg.QuoteNumber = *dto.QuoteNumber
		}
		if sendErr := s.mail.SendQuoteIssued(ctx, msg); sendErr != nil {
			s.logg.Warn(s.logg.WithField(ctx, "tracking_code", dto.TrackingCode), "quote issued email failed")
		}
	}

	return dto, nil
}

func (s *service) loadForPricing(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	quote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load quote")
	}
	return quote, nil
}

// applyPricing validates item ownership before any write so a bad id can
// never price another quote's lines.
func (s *service) applyPricing(ctx context.Context, quote *models.Quote, items []ItemPricingInput) error {
	byID := make(map[uuid.UUID]*models.QuoteItem, len(quote.Items))
	for i := range quote.Items {
		byID[quote.Items[i].ID] = &quote.Items[i]
	}

	for _, input := range items {
		if input.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		if _, ok := byID[input.ItemID]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "item does not belong to this quote").
				WithDetails(map[string]any{"item_id": input.ItemID.String()})
		}
	}

	for _, input := range items {
		line := byID[input.ItemID]
		total := input.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		if err := s.repo.UpdateItemPricing(ctx, input.ItemID, input.UnitPrice, total); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item pricing")
		}
	}
	return nil
}
