package service

import "cafesync/internal/microservices/order/repository"

type Service struct {
	OrderService *OrderService
}

func New(repo *repository.Repository, stock StockDeducter, pub Publisher) *Service {
	return &Service{OrderService: NewOrderService(repo, stock, pub)}
}
