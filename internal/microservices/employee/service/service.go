package service

import "cafesync/internal/microservices/employee/repository"

type Service struct {
	EmployeeService *EmployeeService
}

func New(repo repository.EmployeeRepositoryInterface) *Service {
	return &Service{EmployeeService: NewEmployeeService(repo)}
}
