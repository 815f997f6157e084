package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	fb "cafesync/internal/connections/firebase"
	"cafesync/internal/domain"
)

const (
	inventoryCollection = "inventory"
	historyCollection   = "inventory_history"

	// concurrent completions deduct from the same few ingredients
	adjustAttempts = 20
)

type FirestoreInventoryRepository struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *FirestoreInventoryRepository {
	return &FirestoreInventoryRepository{client: client}
}

func (r *FirestoreInventoryRepository) List(ctx context.Context, f domain.InventoryFilter) ([]domain.InventoryItem, error) {
	q := r.client.Collection(inventoryCollection).Query
	if f.Category != "" {
		q = q.Where("category", "==", f.Category)
	}
	if f.Location != "" {
		q = q.Where("location", "==", f.Location)
	}
	items, err := fb.Collect[domain.InventoryItem](q.Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	if !f.LowStock {
		return items, nil
	}
	// Firestore cannot compare two fields of one document
	low := items[:0]
	for _, it := range items {
		if it.LowStock() {
			low = append(low, it)
		}
	}
	return low, nil
}

func (r *FirestoreInventoryRepository) Get(ctx context.Context, id string) (domain.InventoryItem, error) {
	snap, err := r.client.Collection(inventoryCollection).Doc(id).Get(ctx)
	if fb.IsNotFound(err) {
		return domain.InventoryItem{}, domain.NotFound("Inventory item not found")
	}
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("failed to get inventory item: %w", err)
	}
	var it domain.InventoryItem
	return it, snap.DataTo(&it)
}

func (r *FirestoreInventoryRepository) Create(ctx context.Context, item domain.InventoryItem) error {
	_, err := r.client.Collection(inventoryCollection).Doc(item.ID).Create(ctx, item)
	if fb.IsAlreadyExists(err) {
		return domain.Conflict("Inventory item already exists")
	}
	return err
}

func (r *FirestoreInventoryRepository) Seed(ctx context.Context, items []domain.InventoryItem) error {
	for _, it := range items {
		if err := r.Create(ctx, it); err != nil && !errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("failed to seed %s: %w", it.ID, err)
		}
	}
	return nil
}

func (r *FirestoreInventoryRepository) Adjust(ctx context.Context, adj domain.StockAdjustment, entryID string, at time.Time) (domain.InventoryItem, domain.InventoryHistoryEntry, error) {
	ref := r.client.Collection(inventoryCollection).Doc(adj.ItemID)
	histRef := r.client.Collection(historyCollection).Doc(entryID)
	var (
		item  domain.InventoryItem
		entry domain.InventoryHistoryEntry
	)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if fb.IsNotFound(err) {
			return domain.NotFound("Inventory item not found")
		}
		if err != nil {
			return err
		}
		var cur domain.InventoryItem
		if err := snap.DataTo(&cur); err != nil {
			return err
		}
		item, entry, err = applyAdjustment(cur, adj, entryID, at)
		if err != nil {
			return err
		}
		if err := tx.Set(ref, item); err != nil {
			return err
		}
		return tx.Set(histRef, entry)
	}, firestore.MaxAttempts(adjustAttempts))
	return item, entry, err
}

func (r *FirestoreInventoryRepository) History(ctx context.Context, itemID string, limit int) ([]domain.InventoryHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	q := r.client.Collection(historyCollection).
		Where("itemId", "==", itemID).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit)
	return fb.Collect[domain.InventoryHistoryEntry](q.Documents(ctx))
}
