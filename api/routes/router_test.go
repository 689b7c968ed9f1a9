package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/kimocks-netizen/caro-backend/internal/auth"
	productsvc "github.com/kimocks-netizen/caro-backend/internal/products"
	quotesvc "github.com/kimocks-netizen/caro-backend/internal/quotes"
	pkgAuth "github.com/kimocks-netizen/caro-backend/pkg/auth"
	"github.com/kimocks-netizen/caro-backend/pkg/config"
	"github.com/kimocks-netizen/caro-backend/pkg/mailer"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubQuoteService struct{}

func (stubQuoteService) Submit(context.Context, quotesvc.SubmitInput) (*quotesvc.SubmitResult, error) {
	return &quotesvc.SubmitResult{TrackingCode: "QUO-A1B2C3"}, nil
}

func (stubQuoteService) GetByTracking(context.Context, string) (*quotesvc.QuoteDTO, error) {
	return &quotesvc.QuoteDTO{TrackingCode: "QUO-A1B2C3"}, nil
}

func (stubQuoteService) GetByID(context.Context, uuid.UUID) (*quotesvc.QuoteDTO, error) {
	return &quotesvc.QuoteDTO{}, nil
}

func (stubQuoteService) ListAll(context.Context) ([]quotesvc.QuoteDTO, error) {
	return nil, nil
}

func (stubQuoteService) UpdateStatus(context.Context, uuid.UUID, quotesvc.UpdateStatusInput) (*quotesvc.QuoteDTO, error) {
	return &quotesvc.QuoteDTO{}, nil
}

func (stubQuoteService) UpdatePricing(context.Context, uuid.UUID, []quotesvc.ItemPricingInput) (*quotesvc.QuoteDTO, error) {
	return &quotesvc.QuoteDTO{}, nil
}

func (stubQuoteService) Issue(context.Context, uuid.UUID, quotesvc.IssueInput) (*quotesvc.QuoteDTO, error) {
	return &quotesvc.QuoteDTO{}, nil
}

type stubVerificationService struct{}

func (stubVerificationService) Issue(context.Context, string, string, mailer.FailureMode) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (stubVerificationService) Redeem(context.Context, string, string) error {
	return nil
}

type stubProductService struct{}

func (stubProductService) List(context.Context) ([]productsvc.ProductDTO, error) {
	return nil, nil
}

func (stubProductService) Get(context.Context, uuid.UUID) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) Create(context.Context, productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) Update(context.Context, uuid.UUID, productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) Delete(context.Context, uuid.UUID) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, string, string) (*authsvc.LoginResult, error) {
	return &authsvc.LoginResult{Token: "token"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "0"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
	}
}

func testRouter(cfg *config.Config) http.Handler {
	return NewRouter(
		cfg,
		nil,
		stubPinger{},
		nil,
		stubQuoteService{},
		stubVerificationService{},
		stubProductService{},
		stubAuthService{},
	)
}

func TestRouterPublicRoutes(t *testing.T) {
	router := testRouter(testConfig())

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health/live", "", http.StatusOK},
		{http.MethodGet, "/health/ready", "", http.StatusOK},
		{http.MethodGet, "/api/products", "", http.StatusOK},
		{http.MethodGet, "/api/quotes/track/QUO-A1B2C3", "", http.StatusOK},
		{http.MethodPost, "/api/verify/email", `{"email":"a@b.com","code":"123456"}`, http.StatusOK},
		{http.MethodPost, "/api/verify/resend", `{"email":"a@b.com"}`, http.StatusOK},
		{http.MethodPost, "/api/auth/login", `{"email":"a@b.com","password":"pw"}`, http.StatusOK},
	}
	for _, tc := range tests {
		var req *http.Request
		if tc.body != "" {
			req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		} else {
			req = httptest.NewRequest(tc.method, tc.path, nil)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s %s: expected %d got %d body=%s", tc.method, tc.path, tc.want, resp.Code, resp.Body.String())
		}
	}
}

func TestRouterSubmitQuoteReturnsCreated(t *testing.T) {
	router := testRouter(testConfig())

	body := `{"name":"Rose","email":"rose@example.com","items":[{"product_id":"` + uuid.NewString() + `","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", resp.Code, resp.Body.String())
	}
}

func TestRouterAdminRoutesRequireAuth(t *testing.T) {
	router := testRouter(testConfig())

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/quotes"},
		{http.MethodGet, "/api/quotes/admin/" + uuid.NewString()},
		{http.MethodPut, "/api/quotes/" + uuid.NewString() + "/status"},
		{http.MethodPut, "/api/quotes/" + uuid.NewString() + "/pricing"},
		{http.MethodPut, "/api/quotes/" + uuid.NewString() + "/issue"},
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/" + uuid.NewString()},
		{http.MethodDelete, "/api/products/" + uuid.NewString()},
	}
	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestRouterAdminRoutesAcceptAdminToken(t *testing.T) {
	cfg := testConfig()
	router := testRouter(cfg)

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		AdminID: uuid.New(),
		Email:   "admin@example.com",
		Role:    "admin",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/quotes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}
}

func TestRouterRejectsNonAdminRole(t *testing.T) {
	cfg := testConfig()
	router := testRouter(cfg)

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		AdminID: uuid.New(),
		Email:   "viewer@example.com",
		Role:    "viewer",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/quotes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
