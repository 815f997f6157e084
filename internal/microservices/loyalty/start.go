package loyalty

import (
	"cafesync/internal/microservices/loyalty/handlers"
	"cafesync/internal/microservices/loyalty/repository"
	"cafesync/internal/microservices/loyalty/service"
)

func Init(repo repository.LoyaltyRepositoryInterface) (*service.Service, *handlers.Handler) {
	svc := service.New(repo)
	return svc, handlers.New(svc)
}
