package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"cafesync/internal/common/memstore"
	"cafesync/internal/domain"
)

func NewMemory() *Repository {
	return &Repository{
		OrderRepo:     NewMemoryOrderRepository(),
		CompletedRepo: &MemoryCompletedRepository{snapshots: memstore.New[domain.CompletedOrder]()},
	}
}

type MemoryOrderRepository struct {
	mu      sync.Mutex
	counter int64

	orders  *memstore.Store[domain.Order]
	history *memstore.Store[[]domain.OrderStatusChange]
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders:  memstore.New[domain.Order](),
		history: memstore.New[[]domain.OrderStatusChange](),
	}
}

func (r *MemoryOrderRepository) NextOrderNumber(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	return r.counter, nil
}

func (r *MemoryOrderRepository) AddOrder(ctx context.Context, order domain.Order, first domain.OrderStatusChange) error {
	if !r.orders.Insert(order.ID, order) {
		return domain.Conflict("Order already exists")
	}
	return r.AppendHistory(ctx, first)
}

func (r *MemoryOrderRepository) GetOrder(_ context.Context, id string) (domain.Order, error) {
	o, ok := r.orders.Get(id)
	if !ok {
		return domain.Order{}, domain.NotFound("Order not found")
	}
	return o, nil
}

func (r *MemoryOrderRepository) ListOrders(_ context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	out := r.orders.List(f.Matches)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Offset > 0 {
		out = out[min(f.Offset, len(out)):]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MemoryOrderRepository) MutateOrder(_ context.Context, id string, fn func(*domain.Order) error) (domain.Order, error) {
	o, found, err := r.orders.Update(id, func(o domain.Order) (domain.Order, error) {
		items := make([]domain.OrderItem, len(o.Items))
		copy(items, o.Items)
		o.Items = items
		err := fn(&o)
		return o, err
	})
	if !found {
		return domain.Order{}, domain.NotFound("Order not found")
	}
	return o, err
}

func (r *MemoryOrderRepository) AppendHistory(_ context.Context, change domain.OrderStatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, _ := r.history.Get(change.OrderID)
	r.history.Set(change.OrderID, append(cur, change))
	return nil
}

func (r *MemoryOrderRepository) History(_ context.Context, orderID string) ([]domain.OrderStatusChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, _ := r.history.Get(orderID)
	out := make([]domain.OrderStatusChange, len(cur))
	copy(out, cur)
	return out, nil
}

type MemoryCompletedRepository struct {
	snapshots *memstore.Store[domain.CompletedOrder]
}

func (r *MemoryCompletedRepository) SaveSnapshot(_ context.Context, c domain.CompletedOrder) (bool, error) {
	return r.snapshots.Insert(c.ID, c), nil
}

func (r *MemoryCompletedRepository) Completed(_ context.Context, ids []string) (map[string]bool, error) {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := r.snapshots.Get(id); ok {
			out[id] = true
		}
	}
	return out, nil
}

func (r *MemoryCompletedRepository) ListCompleted(_ context.Context, from, to time.Time) ([]domain.CompletedOrder, error) {
	return r.snapshots.List(func(c domain.CompletedOrder) bool {
		at := completedAt(c)
		return !at.Before(from) && at.Before(to)
	}), nil
}

func completedAt(c domain.CompletedOrder) time.Time {
	if c.CompletedAt != nil {
		return *c.CompletedAt
	}
	return c.SnapshotAt
}
