package handlers

import (
	"github.com/go-chi/chi/v5"

	"cafesync/internal/microservices/inventory/service"
)

type Handler struct {
	InventoryHandler *InventoryHandler
}

func New(s *service.Service) *Handler {
	return &Handler{InventoryHandler: NewInventoryHandler(s.InventoryService)}
}

func (h *Handler) Routes(r chi.Router) {
	ih := h.InventoryHandler
	r.Get("/", ih.List)
	r.Post("/", ih.Create)
	r.Get("/alerts/low-stock", ih.LowStock)
	r.Get("/analytics/overview", ih.Overview)
	r.Get("/{id}", ih.Get)
	r.Get("/{id}/history", ih.History)
	r.Patch("/{id}/stock", ih.UpdateStock)
}
