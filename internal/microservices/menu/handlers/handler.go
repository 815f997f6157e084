package handlers

import (
	"github.com/go-chi/chi/v5"

	"cafesync/internal/microservices/menu/service"
)

type Handler struct {
	MenuHandler *MenuHandler
}

func New(s *service.Service) *Handler {
	return &Handler{MenuHandler: NewMenuHandler(s.MenuService)}
}

// ReadRoutes are open to any signed-in employee.
func (h *Handler) ReadRoutes(r chi.Router) {
	r.Get("/", h.MenuHandler.List)
	r.Get("/categories/list", h.MenuHandler.Categories)
	r.Get("/{id}", h.MenuHandler.Get)
}

// WriteRoutes need manager permission.
func (h *Handler) WriteRoutes(r chi.Router) {
	r.Post("/", h.MenuHandler.Create)
	r.Put("/", h.MenuHandler.Update)
	r.Patch("/bulk", h.MenuHandler.BulkUpdate)
	r.Delete("/{id}", h.MenuHandler.Delete)
}
