package handlers

import (
	"github.com/go-chi/chi/v5"

	"cafesync/internal/microservices/loyalty/service"
)

type Handler struct {
	LoyaltyHandler *LoyaltyHandler
}

func New(s *service.Service) *Handler {
	return &Handler{LoyaltyHandler: NewLoyaltyHandler(s.LoyaltyService)}
}

func (h *Handler) Routes(r chi.Router) {
	lh := h.LoyaltyHandler
	r.Get("/customers", lh.ListCustomers)
	r.Post("/customers", lh.CreateCustomer)
	r.Get("/customers/{id}", lh.GetCustomer)
	r.Patch("/customers/{id}/preferences", lh.UpdatePreferences)
	r.Post("/customers/{id}/points", lh.AddPoints)
	r.Post("/customers/{id}/redeem", lh.Redeem)
	r.Get("/analytics", lh.Analytics)
}
