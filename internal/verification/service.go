package verification

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kimocks-netizen/caro-backend/pkg/config"
	"github.com/kimocks-netizen/caro-backend/pkg/db"
	"github.com/kimocks-netizen/caro-backend/pkg/db/models"
	pkgerrors "github.com/kimocks-netizen/caro-backend/pkg/errors"
	"github.com/kimocks-netizen/caro-backend/pkg/logger"
	"github.com/kimocks-netizen/caro-backend/pkg/mailer"
)

// Service issues and redeems email verification codes.
type Service interface {
	Issue(ctx context.Context, email, trackingCode string, policy mailer.FailureMode) (uuid.UUID, error)
	Redeem(ctx context.Context, email, code string) error
}

type codeStore interface {
	InsertCode(ctx context.Context, code *models.VerificationCode) (*models.VerificationCode, error)
	FindRedeemable(ctx context.Context, contact, code string, now time.Time) (*models.VerificationCode, error)
	MarkUsed(ctx context.Context, id uuid.UUID) (int64, error)
}

type quoteVerifier interface {
	MarkVerifiedByEmail(ctx context.Context, email string) (int64, error)
}

type codeMailer interface {
	SendVerificationCode(ctx context.Context, msg mailer.VerificationCodeEmail) error
}

type service struct {
	repo   codeStore
	quotes quoteVerifier
	mail   codeMailer
	cfg    config.VerificationConfig
	logg   *logger.Logger
	now    func() time.Time
}

// NewService constructs a verification service instance.
func NewService(repo codeStore, quotes quoteVerifier, mail codeMailer, cfg config.VerificationConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("verification repository required")
	}
	if quotes == nil {
		return nil, fmt.Errorf("quote verifier required")
	}
	if mail == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = 15 * time.Minute
	}
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = 6
	}
	return &service{
		repo:   repo,
		quotes: quotes,
		mail:   mail,
		cfg:    cfg,
		logg:   logg,
		now:    time.Now,
	}, nil
}

// Issue persists a fresh code and emails it to the buyer. The failure
// policy decides whether a mail outage is the caller's problem.
func (s *service) Issue(ctx context.Context, email, trackingCode string, policy mailer.FailureMode) (uuid.UUID, error) {
	contact := strings.ToLower(strings.TrimSpace(email))
	if contact == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	code, err := generateNumericCode(s.cfg.CodeLength)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate verification code")
	}

	expiresAt := s.now().UTC().Add(s.cfg.CodeTTL)
	row, err := s.repo.InsertCode(ctx, &models.VerificationCode{
		Contact:   contact,
		Code:      code,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		// Persistence comes first: a code that was never stored must
		// never be emailed.
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert verification code")
	}

	sendErr := s.mail.SendVerificationCode(ctx, mailer.VerificationCodeEmail{
		To:           contact,
		TrackingCode: trackingCode,
		Code:         code,
		ExpiresAt:    expiresAt,
	})
	if sendErr != nil {
		if policy == mailer.FailPropagate {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, sendErr, "send verification email")
		}
		s.logg.Warn(s.logg.WithField(ctx, "tracking_code", trackingCode), "verification email failed, code remains redeemable via resend")
	}

	return row.ID, nil
}

// Redeem validates a submitted code and propagates the verified flag to
// every quote for the email.
func (s *service) Redeem(ctx context.Context, email, code string) error {
	contact := strings.ToLower(strings.TrimSpace(email))
	submitted := strings.TrimSpace(code)
	if contact == "" || submitted == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email and code are required")
	}

	row, err := s.repo.FindRedeemable(ctx, contact, submitted, s.now().UTC())
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid or expired verification code")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load verification code")
	}

	// Mark used before propagating. A crash between the two steps burns
	// the code but the buyer can always resend and verify again.
	rows, err := s.repo.MarkUsed(ctx, row.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark code used")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid or expired verification code")
	}

	if _, err := s.quotes.MarkVerifiedByEmail(ctx, contact); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark quotes verified")
	}
	return nil
}

func generateNumericCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		// rand.Int keeps each digit uniform.
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = '0' + byte(n.Int64())
	}
	return string(digits), nil
}
