package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cafesync/internal/common/httpx"
	"cafesync/internal/microservices/notificator/service"
)

type NotificationHandler struct {
	service service.NotificatorServiceInterface
}

func NewNotificationHandler(s service.NotificatorServiceInterface) *NotificationHandler {
	return &NotificationHandler{service: s}
}

func (nh *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	unread := httpx.BoolParam(r, "unread")
	items, err := nh.service.List(r.Context(), unread != nil && *unread)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.List(w, items)
}

func (nh *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	n, err := nh.service.MarkRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, n)
}

func (nh *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := nh.service.MarkAllRead(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, map[string]int{"updated": n}, "All notifications marked as read")
}

func (nh *NotificationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := nh.service.Clear(r.Context()); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, nil, "Notifications cleared")
}
