package repository

import (
	"context"
	"time"

	"cafesync/internal/domain"
)

type OrderRepositoryInterface interface {
	// NextOrderNumber returns a strictly increasing number, safe under concurrent callers.
	NextOrderNumber(ctx context.Context) (int64, error)
	AddOrder(ctx context.Context, order domain.Order, first domain.OrderStatusChange) error
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	// ListOrders returns newest first, skipping f.Offset entries and returning
	// at most f.Limit when it is positive.
	ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error)
	// MutateOrder applies fn atomically to the stored order. fn may run more
	// than once on backends that retry transactions.
	MutateOrder(ctx context.Context, id string, fn func(*domain.Order) error) (domain.Order, error)
	AppendHistory(ctx context.Context, change domain.OrderStatusChange) error
	History(ctx context.Context, orderID string) ([]domain.OrderStatusChange, error)
}

type CompletedOrderRepositoryInterface interface {
	// SaveSnapshot stores the snapshot unless one exists for the order already.
	SaveSnapshot(ctx context.Context, c domain.CompletedOrder) (created bool, err error)
	// Completed reports which of ids already have a snapshot.
	Completed(ctx context.Context, ids []string) (map[string]bool, error)
	// ListCompleted returns snapshots completed in [from, to).
	ListCompleted(ctx context.Context, from, to time.Time) ([]domain.CompletedOrder, error)
}

type Repository struct {
	OrderRepo     OrderRepositoryInterface
	CompletedRepo CompletedOrderRepositoryInterface
}
