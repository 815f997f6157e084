package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafesync/internal/domain"
	"cafesync/internal/microservices/notificator/repository"
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

func newTestService() (*NotificatorService, *fakePub) {
	pub := &fakePub{}
	svc := NewNotificatorService(repository.NewMemory(), pub)
	base := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	var tick int
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return svc, pub
}

func order(status domain.OrderStatus, fresh bool) domain.Order {
	created := time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC)
	updated := created
	if !fresh {
		updated = created.Add(time.Minute)
	}
	return domain.Order{ID: "o-1", OrderNumber: 42, Status: status, CreatedAt: created, UpdatedAt: updated}
}

func TestObserveDerivesNotifications(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService()

	svc.Observe(ctx, domain.OrderUpdate(order(domain.StatusPending, true)))
	svc.Observe(ctx, domain.OrderUpdate(order(domain.StatusPending, false))) // items added, no notification
	svc.Observe(ctx, domain.OrderUpdate(order(domain.StatusReady, false)))
	svc.Observe(ctx, domain.OrderUpdate(order(domain.StatusCancelled, false)))
	svc.Observe(ctx, domain.OrderUpdate(order(domain.StatusCompleted, false)))
	svc.Observe(ctx, domain.InventoryUpdate(domain.InventoryItem{ID: "milk", Name: "Whole Milk", CurrentStock: 4, MinStock: 5, Unit: "liters"}))
	svc.Observe(ctx, domain.InventoryUpdate(domain.InventoryItem{ID: "beans", Name: "Beans", CurrentStock: 40, MinStock: 5}))
	svc.Observe(ctx, domain.NotificationEvent(domain.Notification{ID: "x"}))

	list, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 4)

	assert.Equal(t, domain.NotifyWarning, list[0].Type)
	assert.Equal(t, "Whole Milk is running low (4 liters left)", list[0].Message)
	assert.Equal(t, "Order #42 has been cancelled", list[1].Message)
	assert.Equal(t, domain.NotifySuccess, list[2].Type)
	assert.Equal(t, "Order #42 is ready", list[2].Message)
	assert.Equal(t, "o-1", list[2].OrderID)
	assert.Equal(t, domain.NotifyInfo, list[3].Type)
	assert.Equal(t, "New order #42 received", list[3].Message)

	require.Len(t, pub.events, 4)
	for _, ev := range pub.events {
		assert.Equal(t, domain.EventNotification, ev.Type)
	}
}

func TestReadFlags(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	a, err := svc.Notify(ctx, domain.NotifyInfo, "A", "first", "")
	require.NoError(t, err)
	_, err = svc.Notify(ctx, domain.NotifyInfo, "B", "second", "")
	require.NoError(t, err)
	_, err = svc.Notify(ctx, domain.NotifyInfo, "C", "third", "")
	require.NoError(t, err)

	n, err := svc.MarkRead(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, n.Read)

	unread, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	updated, err := svc.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	unread, err = svc.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	_, err = svc.MarkRead(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.Clear(ctx))
	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLogIsCapped(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	for i := 0; i < domain.MaxNotifications+5; i++ {
		_, err := svc.Notify(ctx, domain.NotifyInfo, "n", fmt.Sprintf("n-%d", i), "")
		require.NoError(t, err)
	}
	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, domain.MaxNotifications)
	assert.Equal(t, fmt.Sprintf("n-%d", domain.MaxNotifications+4), all[0].Message)
	assert.Equal(t, "n-5", all[len(all)-1].Message)
}
