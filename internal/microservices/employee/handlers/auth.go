package handlers

import (
	"net/http"

	"cafesync/internal/common/httpx"
	"cafesync/internal/common/validate"
	"cafesync/internal/microservices/employee/auth"
	dto "cafesync/internal/microservices/employee/domain/dto"
	"cafesync/internal/microservices/employee/service"
)

// TokenIssuer signs tokens for local development.
type TokenIssuer interface {
	Issue(email string) (string, error)
}

type AuthHandler struct {
	service service.EmployeeServiceInterface
	issuer  TokenIssuer
}

func NewAuthHandler(s service.EmployeeServiceInterface, issuer TokenIssuer) *AuthHandler {
	return &AuthHandler{service: s, issuer: issuer}
}

func (ah *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	e, ok := auth.EmployeeFrom(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	httpx.OK(w, e)
}

// DevToken signs a token for a whitelisted employee. Only mounted in dev mode.
func (ah *AuthHandler) DevToken(w http.ResponseWriter, r *http.Request) {
	if ah.issuer == nil {
		httpx.Fail(w, http.StatusNotFound, "Dev tokens are disabled")
		return
	}
	var req dto.DevTokenRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := validate.Struct(req, "A valid email is required"); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	rec, err := ah.service.Lookup(r.Context(), req.Email)
	if err != nil {
		httpx.Fail(w, http.StatusForbidden, "Access denied: employee is not whitelisted")
		return
	}
	token, err := ah.issuer.Issue(rec.Email)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, map[string]any{"token": token, "employee": rec})
}
