package handlers

import (
	"github.com/go-chi/chi/v5"

	"cafesync/internal/microservices/employee/service"
)

type Handler struct {
	EmployeeHandler *EmployeeHandler
	AuthHandler     *AuthHandler
}

func New(s *service.Service, issuer TokenIssuer) *Handler {
	return &Handler{
		EmployeeHandler: NewEmployeeHandler(s.EmployeeService),
		AuthHandler:     NewAuthHandler(s.EmployeeService, issuer),
	}
}

func (h *Handler) EmployeeRoutes(r chi.Router) {
	r.Get("/", h.EmployeeHandler.List)
	r.Post("/", h.EmployeeHandler.Add)
	r.Patch("/{email}/status", h.EmployeeHandler.UpdateStatus)
	r.Delete("/{email}", h.EmployeeHandler.Remove)
}
