package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"cafesync/internal/common/memstore"
	"cafesync/internal/domain"
)

type MemoryMenuRepository struct {
	mu    sync.Mutex // serializes id assignment
	items *memstore.Store[domain.MenuItem]
}

func NewMemory() *MemoryMenuRepository {
	return &MemoryMenuRepository{items: memstore.New[domain.MenuItem]()}
}

func key(id int) string { return strconv.Itoa(id) }

func (r *MemoryMenuRepository) List(_ context.Context) ([]domain.MenuItem, error) {
	out := r.items.List(nil)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryMenuRepository) Get(_ context.Context, id int) (domain.MenuItem, error) {
	m, ok := r.items.Get(key(id))
	if !ok {
		return domain.MenuItem{}, notFound()
	}
	return m, nil
}

func (r *MemoryMenuRepository) Create(_ context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	maxID := 0
	for _, m := range r.items.List(nil) {
		maxID = max(maxID, m.ID)
	}
	item.ID = maxID + 1
	r.items.Set(key(item.ID), item)
	return item, nil
}

func (r *MemoryMenuRepository) Update(_ context.Context, id int, fn func(domain.MenuItem) domain.MenuItem) (domain.MenuItem, error) {
	m, found, err := r.items.Update(key(id), func(m domain.MenuItem) (domain.MenuItem, error) {
		return fn(m), nil
	})
	if !found {
		return domain.MenuItem{}, notFound()
	}
	return m, err
}

func (r *MemoryMenuRepository) Delete(_ context.Context, id int) error {
	if !r.items.Delete(key(id)) {
		return notFound()
	}
	return nil
}

func (r *MemoryMenuRepository) Seed(_ context.Context, items []domain.MenuItem) error {
	for _, m := range items {
		r.items.Insert(key(m.ID), m)
	}
	return nil
}
