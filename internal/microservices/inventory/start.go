package inventory

import (
	"cafesync/internal/microservices/inventory/handlers"
	"cafesync/internal/microservices/inventory/repository"
	"cafesync/internal/microservices/inventory/service"
)

func Init(repo repository.InventoryRepositoryInterface, pub service.Publisher) (*service.Service, *handlers.Handler) {
	svc := service.New(repo, pub)
	return svc, handlers.New(svc)
}
