package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	fb "cafesync/internal/connections/firebase"
	"cafesync/internal/domain"
)

const (
	ordersCollection    = "orders"
	historyCollection   = "history"
	completedCollection = "completedOrders"
	countersCollection  = "_counters"

	// every order creation contends on one counter document
	counterAttempts = 20
)

func NewFirestore(client *firestore.Client) *Repository {
	return &Repository{
		OrderRepo:     &FirestoreOrderRepository{client: client},
		CompletedRepo: &FirestoreCompletedRepository{client: client},
	}
}

type FirestoreOrderRepository struct {
	client *firestore.Client
}

type counterDoc struct {
	Value int64 `firestore:"value"`
}

func (r *FirestoreOrderRepository) NextOrderNumber(ctx context.Context) (int64, error) {
	ref := r.client.Collection(countersCollection).Doc("orders")
	var next int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var cur counterDoc
		snap, err := tx.Get(ref)
		switch {
		case fb.IsNotFound(err):
		case err != nil:
			return err
		default:
			if err := snap.DataTo(&cur); err != nil {
				return err
			}
		}
		next = cur.Value + 1
		return tx.Set(ref, counterDoc{Value: next})
	}, firestore.MaxAttempts(counterAttempts))
	if err != nil {
		return 0, fmt.Errorf("failed to bump order counter: %w", err)
	}
	return next, nil
}

func (r *FirestoreOrderRepository) AddOrder(ctx context.Context, order domain.Order, first domain.OrderStatusChange) error {
	ref := r.client.Collection(ordersCollection).Doc(order.ID)
	hist := ref.Collection(historyCollection).Doc(first.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(ref, order); err != nil {
			return err
		}
		return tx.Create(hist, first)
	})
	if fb.IsAlreadyExists(err) {
		return domain.Conflict("Order already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *FirestoreOrderRepository) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	snap, err := r.client.Collection(ordersCollection).Doc(id).Get(ctx)
	if fb.IsNotFound(err) {
		return domain.Order{}, domain.NotFound("Order not found")
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	var o domain.Order
	if err := snap.DataTo(&o); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *FirestoreOrderRepository) ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	q := r.client.Collection(ordersCollection).Query
	if f.Station != "" {
		q = q.Where("station", "==", f.Station)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		q = q.Where("status", "in", statuses)
	}
	q = q.OrderBy("createdAt", firestore.Desc)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	return fb.Collect[domain.Order](q.Documents(ctx))
}

func (r *FirestoreOrderRepository) MutateOrder(ctx context.Context, id string, fn func(*domain.Order) error) (domain.Order, error) {
	ref := r.client.Collection(ordersCollection).Doc(id)
	var out domain.Order
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if fb.IsNotFound(err) {
			return domain.NotFound("Order not found")
		}
		if err != nil {
			return err
		}
		var o domain.Order
		if err := snap.DataTo(&o); err != nil {
			return err
		}
		if err := fn(&o); err != nil {
			return err
		}
		out = o
		return tx.Set(ref, o)
	})
	return out, err
}

func (r *FirestoreOrderRepository) AppendHistory(ctx context.Context, change domain.OrderStatusChange) error {
	_, err := r.client.Collection(ordersCollection).Doc(change.OrderID).
		Collection(historyCollection).Doc(change.ID).Set(ctx, change)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

func (r *FirestoreOrderRepository) History(ctx context.Context, orderID string) ([]domain.OrderStatusChange, error) {
	q := r.client.Collection(ordersCollection).Doc(orderID).Collection(historyCollection).
		OrderBy("timestamp", firestore.Asc)
	return fb.Collect[domain.OrderStatusChange](q.Documents(ctx))
}

type FirestoreCompletedRepository struct {
	client *firestore.Client
}

func (r *FirestoreCompletedRepository) SaveSnapshot(ctx context.Context, c domain.CompletedOrder) (bool, error) {
	_, err := r.client.Collection(completedCollection).Doc(c.ID).Create(ctx, c)
	if fb.IsAlreadyExists(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return true, nil
}

func (r *FirestoreCompletedRepository) Completed(ctx context.Context, ids []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(ids) == 0 {
		return out, nil
	}
	refs := make([]*firestore.DocumentRef, len(ids))
	for i, id := range ids {
		refs[i] = r.client.Collection(completedCollection).Doc(id)
	}
	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to check snapshots: %w", err)
	}
	for _, s := range snaps {
		if s.Exists() {
			out[s.Ref.ID] = true
		}
	}
	return out, nil
}

func (r *FirestoreCompletedRepository) ListCompleted(ctx context.Context, from, to time.Time) ([]domain.CompletedOrder, error) {
	q := r.client.Collection(completedCollection).
		Where("completedAt", ">=", from).
		Where("completedAt", "<", to).
		OrderBy("completedAt", firestore.Asc)
	return fb.Collect[domain.CompletedOrder](q.Documents(ctx))
}
