package controllers

import (
	"net/http"

	"github.com/kimocks-netizen/caro-backend/api/responses"
	"github.com/kimocks-netizen/caro-backend/api/validators"
	verificationsvc "github.com/kimocks-netizen/caro-backend/internal/verification"
	pkgerrors "github.com/kimocks-netizen/caro-backend/pkg/errors"
	"github.com/kimocks-netizen/caro-backend/pkg/logger"
	"github.com/kimocks-netizen/caro-backend/pkg/mailer"
)

// VerifyEmail redeems a verification code and flags the buyer's quotes.
func VerifyEmail(svc verificationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "verification service unavailable"))
			return
		}

		var payload verifyEmailRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Redeem(r.Context(), payload.Email, payload.Code); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "email verified", nil)
	}
}

// ResendVerification issues a fresh code. Unlike the send attached to quote
// submission, a failed email here is surfaced to the caller.
func ResendVerification(svc verificationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "verification service unavailable"))
			return
		}

		var payload resendVerificationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := svc.Issue(r.Context(), payload.Email, payload.TrackingCode, mailer.FailPropagate); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "verification code sent", nil)
	}
}

type verifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

type resendVerificationRequest struct {
	Email        string `json:"email" validate:"required,email"`
	TrackingCode string `json:"tracking_code,omitempty"`
}
