package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"cafesync/internal/common/memstore"
	"cafesync/internal/domain"
)

type MemoryInventoryRepository struct {
	items *memstore.Store[domain.InventoryItem]

	mu      sync.Mutex
	history []domain.InventoryHistoryEntry
}

func NewMemory() *MemoryInventoryRepository {
	return &MemoryInventoryRepository{items: memstore.New[domain.InventoryItem]()}
}

func (r *MemoryInventoryRepository) List(_ context.Context, f domain.InventoryFilter) ([]domain.InventoryItem, error) {
	return r.items.List(f.Matches), nil
}

func (r *MemoryInventoryRepository) Get(_ context.Context, id string) (domain.InventoryItem, error) {
	it, ok := r.items.Get(id)
	if !ok {
		return domain.InventoryItem{}, domain.NotFound("Inventory item not found")
	}
	return it, nil
}

func (r *MemoryInventoryRepository) Create(_ context.Context, item domain.InventoryItem) error {
	if !r.items.Insert(item.ID, item) {
		return domain.Conflict("Inventory item already exists")
	}
	return nil
}

func (r *MemoryInventoryRepository) Seed(_ context.Context, items []domain.InventoryItem) error {
	for _, it := range items {
		r.items.Insert(it.ID, it)
	}
	return nil
}

func (r *MemoryInventoryRepository) Adjust(_ context.Context, adj domain.StockAdjustment, entryID string, at time.Time) (domain.InventoryItem, domain.InventoryHistoryEntry, error) {
	var entry domain.InventoryHistoryEntry
	item, found, err := r.items.Update(adj.ItemID, func(it domain.InventoryItem) (domain.InventoryItem, error) {
		var err error
		it, entry, err = applyAdjustment(it, adj, entryID, at)
		return it, err
	})
	if !found {
		return domain.InventoryItem{}, entry, domain.NotFound("Inventory item not found")
	}
	if err != nil {
		return domain.InventoryItem{}, entry, err
	}
	r.mu.Lock()
	r.history = append(r.history, entry)
	r.mu.Unlock()
	return item, entry, nil
}

func (r *MemoryInventoryRepository) History(_ context.Context, itemID string, limit int) ([]domain.InventoryHistoryEntry, error) {
	r.mu.Lock()
	var out []domain.InventoryHistoryEntry
	for _, e := range r.history {
		if e.ItemID == itemID {
			out = append(out, e)
		}
	}
	r.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
