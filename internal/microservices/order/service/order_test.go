package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafesync/internal/domain"
	dto "cafesync/internal/microservices/order/domain/dto"
	"cafesync/internal/microservices/order/repository"
)

type fakeStock struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeStock) DeductForOrder(_ context.Context, orderID string, _ []domain.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, orderID)
	return f.err
}

type fakePub struct {
	mu     sync.Mutex
	events []domain.Event
}

func (f *fakePub) Publish(_ context.Context, ev domain.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

func newTestService(t *testing.T) (*OrderService, *repository.Repository, *fakeStock, *fakePub) {
	t.Helper()
	repo := repository.NewMemory()
	stock := &fakeStock{}
	pub := &fakePub{}
	svc := NewOrderService(repo, stock, pub)
	clock := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, repo, stock, pub
}

func latteOrder() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Customer: "Table 4",
		Items:    []domain.OrderItem{{ID: "1", Name: "Latte", Quantity: 2, Price: 4.5}},
	}
}

func TestCreateOrderRequiresCustomerAndItems(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, dto.CreateOrderRequest{Items: latteOrder().Items})
	assert.EqualError(t, err, "Customer and items are required")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateOrder(ctx, dto.CreateOrderRequest{Customer: "Takeout"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	bad := latteOrder()
	bad.Items[0].Quantity = 0
	_, err = svc.CreateOrder(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateOrderComputesFields(t *testing.T) {
	svc, _, _, pub := newTestService(t)

	o, err := svc.CreateOrder(context.Background(), latteOrder())
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, int64(1), o.OrderNumber)
	assert.Equal(t, 9.0, o.TotalAmount)
	assert.Equal(t, 3, o.EstimatedPrepTime)
	assert.Equal(t, domain.PriorityNormal, o.Priority)
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Equal(t, domain.StationFrontCounter, o.Station)
	assert.Equal(t, "cash", o.PaymentMethod)

	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.EventOrderUpdate, pub.events[0].Type)
	assert.Equal(t, []string{"front-counter", "kitchen"}, pub.events[0].Rooms())
}

func TestCreateOrderNumbersUniqueUnderConcurrency(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	svc.now = func() time.Time { return time.Now().UTC() }

	const n = 64
	numbers := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o, err := svc.CreateOrder(context.Background(), latteOrder())
			assert.NoError(t, err)
			numbers[i] = o.OrderNumber
		}(i)
	}
	wg.Wait()

	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	for i, got := range numbers {
		assert.Equal(t, int64(i+1), got)
	}
}

func TestCompletingStoresOneSnapshotAndDeductsOnce(t *testing.T) {
	svc, repo, stock, _ := newTestService(t)
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, latteOrder())
	require.NoError(t, err)

	for _, st := range []domain.OrderStatus{"preparing", "ready", "completed", "completed", "pending", "completed"} {
		_, err := svc.UpdateStatus(ctx, o.ID, dto.UpdateStatusRequest{Status: st, UpdatedBy: "barista@cafesync.com"})
		require.NoError(t, err)
	}

	snaps, err := repo.CompletedRepo.ListCompleted(ctx, time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, o.ID, snaps[0].ID)
	assert.Equal(t, 1, snaps[0].AnalysisData.ItemCount)
	assert.Equal(t, 9.0, snaps[0].AnalysisData.OrderValue)
	assert.Equal(t, "dine-in", snaps[0].AnalysisData.CustomerType)
	assert.Equal(t, 3.0, snaps[0].AnalysisData.TotalPrepTime)

	assert.Equal(t, []string{o.ID}, stock.calls)

	hist, err := svc.History(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, hist, 7)
	assert.Equal(t, domain.StatusPending, hist[0].Status)
	assert.Equal(t, "barista@cafesync.com", hist[1].UpdatedBy)
}

func TestDeductionFailureDoesNotFailStatusUpdate(t *testing.T) {
	svc, _, stock, _ := newTestService(t)
	stock.err = errors.New("inventory offline")
	ctx := context.Background()

	o, err := svc.CreateOrder(ctx, latteOrder())
	require.NoError(t, err)

	got, err := svc.UpdateStatus(ctx, o.ID, dto.UpdateStatusRequest{Status: domain.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
}

func TestUpdateStatusValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	o, err := svc.CreateOrder(ctx, latteOrder())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, o.ID, dto.UpdateStatusRequest{Status: "shipped"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateStatus(ctx, "missing", dto.UpdateStatusRequest{Status: domain.StatusReady})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// no transition rules: a cancelled order can go back to pending
	_, err = svc.UpdateStatus(ctx, o.ID, dto.UpdateStatusRequest{Status: domain.StatusCancelled})
	require.NoError(t, err)
	back, err := svc.UpdateStatus(ctx, o.ID, dto.UpdateStatusRequest{Status: domain.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, back.Status)
}

func TestAddItems(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	o, err := svc.CreateOrder(ctx, latteOrder())
	require.NoError(t, err)

	updated, err := svc.AddItems(ctx, o.ID, dto.AddItemsRequest{Items: []domain.OrderItem{
		{ID: "9", Name: "Caramel Macchiato", Quantity: 10, Price: 5.25, Category: "specialty"},
	}})
	require.NoError(t, err)
	assert.Len(t, updated.Items, 2)
	assert.Equal(t, 61.5, updated.TotalAmount)
	assert.Equal(t, 6, updated.EstimatedPrepTime)
	assert.Equal(t, domain.PriorityHigh, updated.Priority)

	same, err := svc.AddItems(ctx, o.ID, dto.AddItemsRequest{Items: []domain.OrderItem{}})
	require.NoError(t, err)
	assert.Len(t, same.Items, 2)
	assert.Equal(t, 61.5, same.TotalAmount)

	_, err = svc.AddItems(ctx, o.ID, dto.AddItemsRequest{})
	assert.EqualError(t, err, "Items array is required")

	_, err = svc.UpdateStatus(ctx, o.ID, dto.UpdateStatusRequest{Status: domain.StatusCancelled})
	require.NoError(t, err)
	_, err = svc.AddItems(ctx, o.ID, dto.AddItemsRequest{Items: latteOrder().Items})
	assert.EqualError(t, err, "Cannot add items to completed or cancelled order")
}

func TestListOrdersHidesCompleted(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateOrder(ctx, latteOrder())
	require.NoError(t, err)
	b, err := svc.CreateOrder(ctx, latteOrder())
	require.NoError(t, err)
	kitchen := latteOrder()
	kitchen.Station = domain.StationKitchen
	c, err := svc.CreateOrder(ctx, kitchen)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, a.ID, dto.UpdateStatusRequest{Status: domain.StatusCompleted})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, b.ID, dto.UpdateStatusRequest{Status: domain.StatusReady})
	require.NoError(t, err)

	live, err := svc.ListOrders(ctx, "", "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID, b.ID}, ids(live))

	done, err := svc.ListOrders(ctx, "completed", "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, ids(done))

	active, err := svc.ListOrders(ctx, "pending,ready", "front-counter", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, ids(active))

	station, err := svc.StationOrders(ctx, "kitchen", "")
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, ids(station))

	limited, err := svc.ListOrders(ctx, "", "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListOrdersLimitCountsOnlyLiveOrders(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	pending, err := svc.CreateOrder(ctx, latteOrder())
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		o, err := svc.CreateOrder(ctx, latteOrder())
		require.NoError(t, err)
		_, err = svc.UpdateStatus(ctx, o.ID, dto.UpdateStatusRequest{Status: domain.StatusCompleted})
		require.NoError(t, err)
	}

	live, err := svc.ListOrders(ctx, "", "", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{pending.ID}, ids(live))
}

func TestListOrdersPagesUntilLimitFilled(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	var want []string
	for i := 0; i < 5; i++ {
		o, err := svc.CreateOrder(ctx, latteOrder())
		require.NoError(t, err)
		want = append([]string{o.ID}, want...)
	}
	for i := 0; i < 4; i++ {
		o, err := svc.CreateOrder(ctx, latteOrder())
		require.NoError(t, err)
		_, err = svc.UpdateStatus(ctx, o.ID, dto.UpdateStatusRequest{Status: domain.StatusCompleted})
		require.NoError(t, err)
	}

	live, err := svc.ListOrders(ctx, "", "", 3)
	require.NoError(t, err)
	assert.Equal(t, want[:3], ids(live))

	all, err := svc.ListOrders(ctx, "", "", 50)
	require.NoError(t, err)
	assert.Equal(t, want, ids(all))
}

func ids(orders []domain.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}
