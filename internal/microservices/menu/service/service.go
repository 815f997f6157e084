package service

import "cafesync/internal/microservices/menu/repository"

type Service struct {
	MenuService *MenuService
}

func New(repo repository.MenuRepositoryInterface) *Service {
	return &Service{MenuService: NewMenuService(repo)}
}
