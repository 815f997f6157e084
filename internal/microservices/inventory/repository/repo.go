package repository

import (
	"context"
	"time"

	"cafesync/internal/domain"
)

type InventoryRepositoryInterface interface {
	List(ctx context.Context, f domain.InventoryFilter) ([]domain.InventoryItem, error)
	Get(ctx context.Context, id string) (domain.InventoryItem, error)
	Create(ctx context.Context, item domain.InventoryItem) error
	// Seed inserts the items that are not stored yet.
	Seed(ctx context.Context, items []domain.InventoryItem) error
	// Adjust applies one stock operation atomically and records it in the history.
	Adjust(ctx context.Context, adj domain.StockAdjustment, entryID string, at time.Time) (domain.InventoryItem, domain.InventoryHistoryEntry, error)
	History(ctx context.Context, itemID string, limit int) ([]domain.InventoryHistoryEntry, error)
}

func applyAdjustment(item domain.InventoryItem, adj domain.StockAdjustment, entryID string, at time.Time) (domain.InventoryItem, domain.InventoryHistoryEntry, error) {
	newStock, ok := adj.Operation.Apply(item.CurrentStock, adj.Quantity)
	if !ok {
		return item, domain.InventoryHistoryEntry{}, domain.Invalid("Unknown stock operation")
	}
	entry := domain.InventoryHistoryEntry{
		ID:        entryID,
		ItemID:    item.ID,
		ItemName:  item.Name,
		Operation: adj.Operation,
		Quantity:  adj.Quantity,
		OldStock:  item.CurrentStock,
		NewStock:  newStock,
		Reason:    adj.Reason,
		UpdatedBy: adj.UpdatedBy,
		Timestamp: at,
	}
	item.CurrentStock = newStock
	item.LastUpdated = at
	if adj.Operation == domain.StockAdd {
		item.LastRestocked = at
	}
	return item, entry, nil
}
