package notificator

import (
	"cafesync/internal/microservices/notificator/handlers"
	"cafesync/internal/microservices/notificator/repository"
	"cafesync/internal/microservices/notificator/service"
)

// Init wires the notification log. pub may be nil when nobody listens for
// new notifications.
func Init(repo repository.NotificationRepositoryInterface, pub service.Publisher) (*service.Service, *handlers.Handler) {
	svc := service.New(repo, pub)
	return svc, handlers.New(svc)
}
