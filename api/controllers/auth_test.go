package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	authsvc "github.com/kimocks-netizen/caro-backend/internal/auth"
	pkgerrors "github.com/kimocks-netizen/caro-backend/pkg/errors"
)

type stubAuthService struct {
	result *authsvc.LoginResult
	email  string
	err    error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*authsvc.LoginResult, error) {
	s.email = email
	return s.result, s.err
}

func TestAdminLoginSuccess(t *testing.T) {
	svc := &stubAuthService{result: &authsvc.LoginResult{
		Token: "signed-token",
		Admin: authsvc.AdminDTO{ID: uuid.New(), Email: "admin@example.com", Role: "admin"},
	}}
	handler := AdminLogin(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{"email":"admin@example.com","password":"secret"}`)))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Token string `json:"token"`
			Admin struct {
				Email string `json:"email"`
			} `json:"admin"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Token != "signed-token" {
		t.Fatalf("unexpected token %q", envelope.Data.Token)
	}
	if envelope.Data.Admin.Email != "admin@example.com" {
		t.Fatalf("unexpected admin %+v", envelope.Data.Admin)
	}
}

func TestAdminLoginRejectsMalformedBody(t *testing.T) {
	handler := AdminLogin(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{"email":"not-an-email","password":""}`)))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminLoginMapsUnauthorized(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AdminLogin(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{"email":"admin@example.com","password":"wrong"}`)))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
