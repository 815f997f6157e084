package service

import "cafesync/internal/microservices/inventory/repository"

type Service struct {
	InventoryService *InventoryService
}

func New(repo repository.InventoryRepositoryInterface, pub Publisher) *Service {
	return &Service{InventoryService: NewInventoryService(repo, pub)}
}
