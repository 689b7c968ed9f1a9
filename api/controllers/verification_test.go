package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/kimocks-netizen/caro-backend/pkg/errors"
	"github.com/kimocks-netizen/caro-backend/pkg/mailer"
)

type stubVerificationService struct {
	issuedEmail    string
	issuedTracking string
	issuedPolicy   mailer.FailureMode
	redeemedEmail  string
	redeemedCode   string
	err            error
}

func (s *stubVerificationService) Issue(ctx context.Context, email, trackingCode string, policy mailer.FailureMode) (uuid.UUID, error) {
	s.issuedEmail = email
	s.issuedTracking = trackingCode
	s.issuedPolicy = policy
	return uuid.New(), s.err
}

func (s *stubVerificationService) Redeem(ctx context.Context, email, code string) error {
	s.redeemedEmail = email
	s.redeemedCode = code
	return s.err
}

func TestVerifyEmailSuccess(t *testing.T) {
	svc := &stubVerificationService{}
	handler := VerifyEmail(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/verify/email", bytes.NewReader([]byte(`{"email":"rose@example.com","code":"123456"}`)))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}
	if svc.redeemedEmail != "rose@example.com" || svc.redeemedCode != "123456" {
		t.Fatalf("unexpected redeem args %q %q", svc.redeemedEmail, svc.redeemedCode)
	}
}

func TestVerifyEmailRejectsBadCode(t *testing.T) {
	svc := &stubVerificationService{err: pkgerrors.New(pkgerrors.CodeValidation, "invalid or expired verification code")}
	handler := VerifyEmail(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/verify/email", bytes.NewReader([]byte(`{"email":"rose@example.com","code":"000000"}`)))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestResendVerificationPropagatesMailFailures(t *testing.T) {
	svc := &stubVerificationService{}
	handler := ResendVerification(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/verify/resend", bytes.NewReader([]byte(`{"email":"rose@example.com","tracking_code":"QUO-A1B2C3"}`)))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}
	if svc.issuedPolicy != mailer.FailPropagate {
		t.Fatal("resend must treat email failure as fatal")
	}
	if svc.issuedTracking != "QUO-A1B2C3" {
		t.Fatalf("tracking code not forwarded, got %q", svc.issuedTracking)
	}

	svc.err = pkgerrors.New(pkgerrors.CodeDependency, "send verification email")
	req = httptest.NewRequest(http.MethodPost, "/api/verify/resend", bytes.NewReader([]byte(`{"email":"rose@example.com"}`)))
	resp = httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
