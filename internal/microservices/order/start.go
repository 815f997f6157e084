package order

import (
	"cafesync/internal/microservices/order/handlers"
	"cafesync/internal/microservices/order/repository"
	"cafesync/internal/microservices/order/service"
)

// Init wires repository -> service -> handlers for the order routes.
func Init(repo *repository.Repository, stock service.StockDeducter, pub service.Publisher) (*service.Service, *handlers.Handler) {
	svc := service.New(repo, stock, pub)
	return svc, handlers.New(svc)
}
