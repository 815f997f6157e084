package repository

import (
	"context"

	"cafesync/internal/domain"
)

// NotificationRepositoryInterface keeps at most domain.MaxNotifications
// entries; Add drops the oldest beyond that.
type NotificationRepositoryInterface interface {
	Add(ctx context.Context, n domain.Notification) error
	// List returns newest first.
	List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) (domain.Notification, error)
	MarkAllRead(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

func notFound() error { return domain.NotFound("Notification not found") }
