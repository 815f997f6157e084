package menu

import (
	"cafesync/internal/microservices/menu/handlers"
	"cafesync/internal/microservices/menu/repository"
	"cafesync/internal/microservices/menu/service"
)

func Init(repo repository.MenuRepositoryInterface) (*service.Service, *handlers.Handler) {
	svc := service.New(repo)
	return svc, handlers.New(svc)
}
