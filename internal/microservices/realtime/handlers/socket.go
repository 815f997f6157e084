package handlers

import (
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	"cafesync/internal/common/logger"
	"cafesync/internal/microservices/employee/auth"
	"cafesync/internal/microservices/realtime/service"
)

type SocketHandler struct {
	hub      *service.Hub
	upgrader websocket.Upgrader
	lg       *logger.Logger
}

// NewSocketHandler accepts upgrades from clientOrigin and from callers that
// send no Origin header at all.
func NewSocketHandler(hub *service.Hub, clientOrigin string) *SocketHandler {
	allowed := hostOf(clientOrigin)
	return &SocketHandler{
		hub: hub,
		lg:  logger.New("realtime"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed == "" || hostOf(origin) == allowed || hostOf(origin) == r.Host
			},
		},
	}
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}

// Serve must run behind the auth gate so the employee is in the context.
func (sh *SocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := sh.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		sh.lg.Debug("upgrade_failed", map[string]any{"error": err.Error()})
		return
	}
	var email string
	if e, ok := auth.EmployeeFrom(r.Context()); ok {
		email = e.Email
	}
	sh.hub.Serve(r.Context(), conn, email)
}
