package handlers

import (
	"github.com/go-chi/chi/v5"

	"cafesync/internal/microservices/notificator/service"
)

type Handler struct {
	NotificationHandler *NotificationHandler
}

func New(s *service.Service) *Handler {
	return &Handler{NotificationHandler: NewNotificationHandler(s.NotificatorService)}
}

func (h *Handler) Routes(r chi.Router) {
	nh := h.NotificationHandler
	r.Get("/", nh.List)
	r.Delete("/", nh.Clear)
	r.Post("/mark-all-read", nh.MarkAllRead)
	r.Patch("/{id}/read", nh.MarkRead)
}
