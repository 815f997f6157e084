package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafesync/internal/domain"
	dto "cafesync/internal/microservices/inventory/domain/dto"
	"cafesync/internal/microservices/inventory/repository"
)

type fakePub struct {
	mu     sync.Mutex
	events []domain.Event
}

func (f *fakePub) Publish(_ context.Context, ev domain.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func newSeeded(t *testing.T) (*InventoryService, *fakePub) {
	t.Helper()
	pub := &fakePub{}
	svc := NewInventoryService(repository.NewMemory(), pub)
	clock := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	require.NoError(t, svc.Seed(context.Background()))
	return svc, pub
}

func qty(v float64) *float64 { return &v }

func TestDeductForOrder_Latte(t *testing.T) {
	svc, pub := newSeeded(t)
	ctx := context.Background()

	err := svc.DeductForOrder(ctx, "o-1", []domain.OrderItem{
		{ID: "1", Name: "Latte", Quantity: 2, Price: 4.5},
		{ID: "6", Name: "Croissant", Quantity: 1, Price: 3.25},
	})
	require.NoError(t, err)

	milk, _ := svc.Get(ctx, "milk-whole-1")
	beans, _ := svc.Get(ctx, "coffee-beans-1")
	syrup, _ := svc.Get(ctx, "syrup-vanilla-1")
	assert.InDelta(t, 24.6, milk.CurrentStock, 1e-9)
	assert.InDelta(t, 49.8, beans.CurrentStock, 1e-9)
	assert.Equal(t, 8.0, syrup.CurrentStock)
	assert.Len(t, pub.events, 2)

	hist, err := svc.History(ctx, "milk-whole-1", 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, domain.StockDeduct, hist[0].Operation)
	assert.Equal(t, "system", hist[0].UpdatedBy)
}

func TestDeductForOrder_ClampsAtZero(t *testing.T) {
	svc, _ := newSeeded(t)
	ctx := context.Background()

	require.NoError(t, svc.DeductForOrder(ctx, "o-2", []domain.OrderItem{
		{ID: "9", Name: "Vanilla Latte", Quantity: 200, Price: 5},
	}))
	syrup, _ := svc.Get(ctx, "syrup-vanilla-1")
	assert.Equal(t, 0.0, syrup.CurrentStock)
}

func TestUpdateStock(t *testing.T) {
	svc, pub := newSeeded(t)
	ctx := context.Background()

	item, err := svc.UpdateStock(ctx, "milk-whole-1", dto.UpdateStockRequest{Quantity: qty(100), Operation: "subtract"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, item.CurrentStock)
	assert.True(t, item.LowStock())

	item, err = svc.UpdateStock(ctx, "milk-whole-1", dto.UpdateStockRequest{Quantity: qty(12), Operation: "add", UpdatedBy: "barista@cafesync.com"})
	require.NoError(t, err)
	assert.Equal(t, 12.0, item.CurrentStock)

	item, err = svc.UpdateStock(ctx, "milk-whole-1", dto.UpdateStockRequest{Quantity: qty(30), Operation: "set"})
	require.NoError(t, err)
	assert.Equal(t, 30.0, item.CurrentStock)

	hist, err := svc.History(ctx, "milk-whole-1", 2)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, domain.StockSet, hist[0].Operation)
	assert.Equal(t, "Manual adjustment", hist[0].Reason)
	assert.Equal(t, "barista@cafesync.com", hist[1].UpdatedBy)
	assert.Len(t, pub.events, 3)
	assert.Equal(t, domain.EventInventoryUpdate, pub.events[0].Type)
}

func TestUpdateStock_Rejects(t *testing.T) {
	svc, _ := newSeeded(t)
	ctx := context.Background()

	cases := map[string]dto.UpdateStockRequest{
		"missing quantity": {Operation: "add"},
		"zero quantity":    {Quantity: qty(0), Operation: "set"},
		"bad operation":    {Quantity: qty(1), Operation: "deduct"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.UpdateStock(ctx, "milk-whole-1", req)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.EqualError(t, err, "Quantity and operation (add/subtract/set) are required")
		})
	}

	_, err := svc.UpdateStock(ctx, "nope", dto.UpdateStockRequest{Quantity: qty(1), Operation: "add"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_Defaults(t *testing.T) {
	svc, _ := newSeeded(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateItemRequest{Name: "Oat Milk", Category: "dairy"})
	assert.EqualError(t, err, "Name, category, currentStock, and unit are required")

	item, err := svc.Create(ctx, dto.CreateItemRequest{Name: "Oat Milk", Category: "dairy", CurrentStock: qty(4), Unit: "cartons"})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, 5.0, item.MinStock)
	assert.Equal(t, 100.0, item.MaxStock)
	assert.Equal(t, "Unknown", item.Supplier)
	assert.Equal(t, "storage", item.Location)

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Oat Milk", low[0].Name)
}

func TestOverview(t *testing.T) {
	svc, _ := newSeeded(t)

	ov, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, ov.TotalItems)
	assert.Equal(t, 0, ov.LowStockCount)
	assert.Equal(t, 784.42, ov.TotalValue)
	assert.Equal(t, 3, ov.Categories)
	require.Len(t, ov.CategoryBreakdown, 3)
	assert.Equal(t, "coffee", ov.CategoryBreakdown[0].Category)
	assert.Equal(t, 625.0, ov.CategoryBreakdown[0].TotalValue)
}
