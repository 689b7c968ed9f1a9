package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/kimocks-netizen/caro-backend/pkg/auth"
	"github.com/kimocks-netizen/caro-backend/pkg/config"
	"github.com/kimocks-netizen/caro-backend/pkg/db"
	"github.com/kimocks-netizen/caro-backend/pkg/db/models"
	pkgerrors "github.com/kimocks-netizen/caro-backend/pkg/errors"
	"github.com/kimocks-netizen/caro-backend/pkg/logger"
	"github.com/kimocks-netizen/caro-backend/pkg/security"
)

// Service exposes admin authentication.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// LoginResult carries the minted token and the admin profile.
type LoginResult struct {
	Token string   `json:"token"`
	Admin AdminDTO `json:"admin"`
}

// AdminDTO is the admin payload returned after login.
type AdminDTO struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
}

type adminStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type service struct {
	repo adminStore
	cfg  config.JWTConfig
	logg *logger.Logger
	now  func() time.Time
}

// NewService constructs an auth service instance.
func NewService(repo adminStore, cfg config.JWTConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("admin repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, cfg: cfg, logg: logg, now: time.Now}, nil
}

// Login verifies credentials and mints an access token. Every miss
// returns the same rejection, so callers cannot probe which emails exist.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	contact := strings.ToLower(strings.TrimSpace(email))
	if contact == "" || password == "" {
		return nil, invalidCredentials()
	}

	admin, err := s.repo.FindByEmail(ctx, contact)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, invalidCredentials()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load admin")
	}
	if !admin.IsActive {
		return nil, invalidCredentials()
	}

	ok, err := security.VerifyPassword(password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, invalidCredentials()
	}

	now := s.now().UTC()
	token, err := pkgauth.MintAccessToken(s.cfg, now, pkgauth.AccessTokenPayload{
		AdminID: admin.ID,
		Email:   admin.Email,
		Role:    admin.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	if err := s.repo.TouchLastLogin(ctx, admin.ID, now); err != nil {
		s.logg.Warn(s.logg.WithAdminID(ctx, admin.ID.String()), "stamping last login failed")
	}

	return &LoginResult{
		Token: token,
		Admin: AdminDTO{
			ID:    admin.ID,
			Email: admin.Email,
			Name:  admin.Name,
			Role:  admin.Role,
		},
	}, nil
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}
