package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cafesync/internal/common/logger"
	"cafesync/internal/domain"
	"cafesync/internal/microservices/notificator/repository"
)

// Publisher pushes the stored notification to connected stations.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event)
}

type NotificatorServiceInterface interface {
	Notify(ctx context.Context, typ domain.NotificationType, title, message, orderID string) (domain.Notification, error)
	List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) (domain.Notification, error)
	MarkAllRead(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

type NotificatorService struct {
	db  repository.NotificationRepositoryInterface
	pub Publisher
	lg  *logger.Logger
	now func() time.Time
}

func NewNotificatorService(db repository.NotificationRepositoryInterface, pub Publisher) *NotificatorService {
	return &NotificatorService{
		db:  db,
		pub: pub,
		lg:  logger.New("notificator"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (ns *NotificatorService) Notify(ctx context.Context, typ domain.NotificationType, title, message, orderID string) (domain.Notification, error) {
	n := domain.Notification{
		ID:        uuid.NewString(),
		Type:      typ,
		Title:     title,
		Message:   message,
		OrderID:   orderID,
		Timestamp: ns.now(),
	}
	if err := ns.db.Add(ctx, n); err != nil {
		return domain.Notification{}, err
	}
	ns.lg.Debug("notification_stored", map[string]any{"id": n.ID, "type": n.Type, "order_id": orderID})
	if ns.pub != nil {
		ns.pub.Publish(ctx, domain.NotificationEvent(n))
	}
	return n, nil
}

// Handle stores a notification for ev when it is worth one. Events that
// produce nothing return nil.
func (ns *NotificatorService) Handle(ctx context.Context, ev domain.Event) error {
	typ, title, msg, orderID, ok := derive(ev)
	if !ok {
		return nil
	}
	_, err := ns.Notify(ctx, typ, title, msg, orderID)
	return err
}

// Observe is Handle for in-process callers: failures are logged, the event
// source never sees them.
func (ns *NotificatorService) Observe(ctx context.Context, ev domain.Event) {
	if err := ns.Handle(ctx, ev); err != nil {
		ns.lg.Error("notification_failed", err, map[string]any{"event": ev.Type})
	}
}

func derive(ev domain.Event) (typ domain.NotificationType, title, msg, orderID string, ok bool) {
	switch {
	case ev.Type == domain.EventOrderUpdate && ev.Order != nil:
		o := ev.Order
		switch o.Status {
		case domain.StatusPending:
			if !o.UpdatedAt.Equal(o.CreatedAt) {
				return
			}
			return domain.NotifyInfo, "New Order", fmt.Sprintf("New order #%d received", o.OrderNumber), o.ID, true
		case domain.StatusPreparing:
			return domain.NotifyInfo, "Order Update", fmt.Sprintf("Order #%d is being prepared", o.OrderNumber), o.ID, true
		case domain.StatusReady:
			return domain.NotifySuccess, "Order Ready", fmt.Sprintf("Order #%d is ready", o.OrderNumber), o.ID, true
		case domain.StatusCancelled:
			return domain.NotifyWarning, "Order Cancelled", fmt.Sprintf("Order #%d has been cancelled", o.OrderNumber), o.ID, true
		}
	case ev.Type == domain.EventInventoryUpdate && ev.Item != nil && ev.Item.LowStock():
		it := ev.Item
		return domain.NotifyWarning, "Low Stock",
			fmt.Sprintf("%s is running low (%g %s left)", it.Name, it.CurrentStock, it.Unit), "", true
	}
	return
}

func (ns *NotificatorService) List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	return ns.db.List(ctx, unreadOnly)
}

func (ns *NotificatorService) MarkRead(ctx context.Context, id string) (domain.Notification, error) {
	return ns.db.MarkRead(ctx, id)
}

func (ns *NotificatorService) MarkAllRead(ctx context.Context) (int, error) {
	return ns.db.MarkAllRead(ctx)
}

func (ns *NotificatorService) Clear(ctx context.Context) error {
	if err := ns.db.Clear(ctx); err != nil {
		return err
	}
	ns.lg.Info("notifications_cleared", nil)
	return nil
}
