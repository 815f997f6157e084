package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"cafesync/internal/common/memstore"
	"cafesync/internal/domain"
)

type MemoryLoyaltyRepository struct {
	mu        sync.Mutex // guards email uniqueness and txs
	customers *memstore.Store[domain.LoyaltyCustomer]
	txs       []domain.LoyaltyTransaction
}

func NewMemory() *MemoryLoyaltyRepository {
	return &MemoryLoyaltyRepository{customers: memstore.New[domain.LoyaltyCustomer]()}
}

func (r *MemoryLoyaltyRepository) List(_ context.Context, tier domain.Tier) ([]domain.LoyaltyCustomer, error) {
	return r.customers.List(func(c domain.LoyaltyCustomer) bool {
		return tier == "" || c.Tier == tier
	}), nil
}

func (r *MemoryLoyaltyRepository) Get(_ context.Context, id string) (domain.LoyaltyCustomer, error) {
	c, ok := r.customers.Get(id)
	if !ok {
		return domain.LoyaltyCustomer{}, notFound()
	}
	return c, nil
}

func (r *MemoryLoyaltyRepository) Create(_ context.Context, c domain.LoyaltyCustomer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	taken := r.customers.List(func(x domain.LoyaltyCustomer) bool { return strings.EqualFold(x.Email, c.Email) })
	if len(taken) > 0 {
		return duplicateEmail()
	}
	r.customers.Set(c.ID, c)
	return nil
}

func (r *MemoryLoyaltyRepository) Mutate(_ context.Context, id string, fn MutateFunc) (domain.LoyaltyCustomer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var tx *domain.LoyaltyTransaction
	c, found, err := r.customers.Update(id, func(c domain.LoyaltyCustomer) (domain.LoyaltyCustomer, error) {
		c.Rewards = append([]domain.Reward(nil), c.Rewards...)
		var err error
		tx, err = fn(&c)
		return c, err
	})
	if !found {
		return domain.LoyaltyCustomer{}, notFound()
	}
	if err != nil {
		return domain.LoyaltyCustomer{}, err
	}
	if tx != nil {
		r.txs = append(r.txs, *tx)
	}
	return c, nil
}

func (r *MemoryLoyaltyRepository) Transactions(_ context.Context, customerID string, limit int) ([]domain.LoyaltyTransaction, error) {
	r.mu.Lock()
	var out []domain.LoyaltyTransaction
	for _, t := range r.txs {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	r.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryLoyaltyRepository) PointTotals(_ context.Context) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var issued, redeemed int
	for _, t := range r.txs {
		switch t.Type {
		case domain.TxEarned:
			issued += t.Points
		case domain.TxRedemption:
			redeemed += abs(t.Points)
		}
	}
	return issued, redeemed, nil
}

func (r *MemoryLoyaltyRepository) Seed(_ context.Context, customers []domain.LoyaltyCustomer, txs []domain.LoyaltyTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range customers {
		if !r.customers.Insert(c.ID, c) {
			continue
		}
		for _, t := range txs {
			if t.CustomerID == c.ID {
				r.txs = append(r.txs, t)
			}
		}
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
