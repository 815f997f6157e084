package employee

import (
	"cafesync/internal/microservices/employee/handlers"
	"cafesync/internal/microservices/employee/repository"
	"cafesync/internal/microservices/employee/service"
)

func Init(repo repository.EmployeeRepositoryInterface, issuer handlers.TokenIssuer) (*service.Service, *handlers.Handler) {
	svc := service.New(repo)
	return svc, handlers.New(svc, issuer)
}
