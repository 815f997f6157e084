package realtime

import (
	"cafesync/internal/microservices/realtime/handlers"
	"cafesync/internal/microservices/realtime/service"
)

func Init(clientOrigin string) (*service.Hub, *handlers.SocketHandler) {
	hub := service.NewHub()
	return hub, handlers.NewSocketHandler(hub, clientOrigin)
}
