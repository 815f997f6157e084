package service

import "cafesync/internal/microservices/loyalty/repository"

type Service struct {
	LoyaltyService *LoyaltyService
}

func New(repo repository.LoyaltyRepositoryInterface) *Service {
	return &Service{LoyaltyService: NewLoyaltyService(repo)}
}
