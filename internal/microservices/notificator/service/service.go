package service

import "cafesync/internal/microservices/notificator/repository"

type Service struct {
	NotificatorService *NotificatorService
}

func New(repo repository.NotificationRepositoryInterface, pub Publisher) *Service {
	return &Service{NotificatorService: NewNotificatorService(repo, pub)}
}
