package controllers

import (
	"net/http"

	"github.com/kimocks-netizen/caro-backend/api/responses"
	"github.com/kimocks-netizen/caro-backend/api/validators"
	authsvc "github.com/kimocks-netizen/caro-backend/internal/auth"
	pkgerrors "github.com/kimocks-netizen/caro-backend/pkg/errors"
	"github.com/kimocks-netizen/caro-backend/pkg/logger"
)

// AdminLogin wires the admin login endpoint into the HTTP layer.
func AdminLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "login accepted", result)
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
