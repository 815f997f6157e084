package handlers

import (
	"github.com/go-chi/chi/v5"

	"cafesync/internal/microservices/order/service"
)

type Handler struct {
	OrderHandler *OrderHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		OrderHandler: NewOrderHandler(s.OrderService),
	}
}

// Routes mounts the order endpoints under the caller's prefix.
func (h *Handler) Routes(r chi.Router) {
	oh := h.OrderHandler
	r.Get("/", oh.ListOrders)
	r.Post("/", oh.AddOrder)
	r.Get("/station/{station}", oh.StationOrders)
	r.Get("/{id}", oh.GetOrder)
	r.Get("/{id}/history", oh.History)
	r.Patch("/{id}/status", oh.UpdateStatus)
	r.Post("/{id}/items", oh.AddItems)
}
