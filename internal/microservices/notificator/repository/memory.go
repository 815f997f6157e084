package repository

import (
	"context"

	"cafesync/internal/common/memstore"
	"cafesync/internal/domain"
)

type MemoryNotificationRepository struct {
	items *memstore.Store[domain.Notification]
}

func NewMemory() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{items: memstore.New[domain.Notification]()}
}

func (r *MemoryNotificationRepository) Add(_ context.Context, n domain.Notification) error {
	r.items.Set(n.ID, n)
	r.items.Trim(domain.MaxNotifications)
	return nil
}

func (r *MemoryNotificationRepository) List(_ context.Context, unreadOnly bool) ([]domain.Notification, error) {
	out := r.items.List(func(n domain.Notification) bool { return !unreadOnly || !n.Read })
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *MemoryNotificationRepository) MarkRead(_ context.Context, id string) (domain.Notification, error) {
	n, found, _ := r.items.Update(id, func(n domain.Notification) (domain.Notification, error) {
		n.Read = true
		return n, nil
	})
	if !found {
		return domain.Notification{}, notFound()
	}
	return n, nil
}

func (r *MemoryNotificationRepository) MarkAllRead(_ context.Context) (int, error) {
	updated := 0
	for _, n := range r.items.List(func(n domain.Notification) bool { return !n.Read }) {
		if _, found, _ := r.items.Update(n.ID, func(n domain.Notification) (domain.Notification, error) {
			n.Read = true
			return n, nil
		}); found {
			updated++
		}
	}
	return updated, nil
}

func (r *MemoryNotificationRepository) Clear(_ context.Context) error {
	r.items.Trim(0)
	return nil
}
