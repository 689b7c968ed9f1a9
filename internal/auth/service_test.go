package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	pkgauth "github.com/kimocks-netizen/caro-backend/pkg/auth"
	"github.com/kimocks-netizen/caro-backend/pkg/config"
	"github.com/kimocks-netizen/caro-backend/pkg/db/models"
	pkgerrors "github.com/kimocks-netizen/caro-backend/pkg/errors"
	"github.com/kimocks-netizen/caro-backend/pkg/logger"
	"github.com/kimocks-netizen/caro-backend/pkg/security"
)

type fakeAdminStore struct {
	admins       map[string]*models.Admin
	touchedIDs   []uuid.UUID
	touchFailure error
}

func (f *fakeAdminStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	admin, ok := f.admins[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return admin, nil
}

func (f *fakeAdminStore) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if f.touchFailure != nil {
		return f.touchFailure
	}
	f.touchedIDs = append(f.touchedIDs, id)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "caro-backend", ExpirationMinutes: 120}
}

func seedAdmin(t *testing.T, store *fakeAdminStore, email, password string, active bool) *models.Admin {
	t.Helper()
	hash, err := security.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admin := &models.Admin{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Ops",
		Role:         "admin",
		IsActive:     active,
	}
	store.admins[email] = admin
	return admin
}

func newTestService(t *testing.T, store *fakeAdminStore) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(store, testJWTConfig(), logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginSuccess(t *testing.T) {
	store := &fakeAdminStore{admins: make(map[string]*models.Admin)}
	admin := seedAdmin(t, store, "ops@caro.example", "hunter2hunter2", true)
	svc := newTestService(t, store)

	result, err := svc.Login(context.Background(), " Ops@Caro.Example ", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Token)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.AdminID != admin.ID {
		t.Fatalf("expected admin id %s in claims, got %s", admin.ID, claims.AdminID)
	}
	if claims.Role != "admin" {
		t.Fatalf("unexpected role claim %q", claims.Role)
	}

	if result.Admin.Email != admin.Email {
		t.Fatalf("unexpected admin payload %+v", result.Admin)
	}
	if len(store.touchedIDs) != 1 || store.touchedIDs[0] != admin.ID {
		t.Fatal("expected last login stamp")
	}
}

func TestLoginUniformRejection(t *testing.T) {
	store := &fakeAdminStore{admins: make(map[string]*models.Admin)}
	seedAdmin(t, store, "ops@caro.example", "correct-password", true)
	seedAdmin(t, store, "gone@caro.example", "whatever-pass", false)
	svc := newTestService(t, store)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@caro.example", "correct-password"},
		{"wrong password", "ops@caro.example", "wrong-password"},
		{"inactive admin", "gone@caro.example", "whatever-pass"},
		{"empty password", "ops@caro.example", ""},
	}

	var messages []string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.email, tc.password)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
			messages = append(messages, typed.Message())
		})
	}

	for _, msg := range messages {
		if msg != messages[0] {
			t.Fatalf("rejections must be uniform, got %v", messages)
		}
	}
}

func TestLoginSurvivesLastLoginStampFailure(t *testing.T) {
	store := &fakeAdminStore{admins: make(map[string]*models.Admin), touchFailure: gorm.ErrInvalidDB}
	seedAdmin(t, store, "ops@caro.example", "hunter2hunter2", true)
	svc := newTestService(t, store)

	if _, err := svc.Login(context.Background(), "ops@caro.example", "hunter2hunter2"); err != nil {
		t.Fatalf("login should survive a stamp failure: %v", err)
	}
}
