package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"cafesync/internal/common/logger"
	"cafesync/internal/common/validate"
	"cafesync/internal/domain"
	dto "cafesync/internal/microservices/order/domain/dto"
	"cafesync/internal/microservices/order/repository"
)

const (
	defaultListLimit     = 50
	defaultPaymentMethod = "cash"
	sideEffectTimeout    = 10 * time.Second
)

// StockDeducter consumes ingredients for a completed order.
type StockDeducter interface {
	DeductForOrder(ctx context.Context, orderID string, items []domain.OrderItem) error
}

// Publisher pushes events to connected stations.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event)
}

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	ListOrders(ctx context.Context, statuses, station string, limit int) ([]domain.Order, error)
	StationOrders(ctx context.Context, station, statuses string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (domain.Order, error)
	AddItems(ctx context.Context, id string, req dto.AddItemsRequest) (domain.Order, error)
	History(ctx context.Context, id string) ([]domain.OrderStatusChange, error)
	CompletedBetween(ctx context.Context, from, to time.Time) ([]domain.CompletedOrder, error)
}

type OrderService struct {
	db        repository.OrderRepositoryInterface
	completed repository.CompletedOrderRepositoryInterface
	stock     StockDeducter
	pub       Publisher
	lg        *logger.Logger
	now       func() time.Time
}

func NewOrderService(repo *repository.Repository, stock StockDeducter, pub Publisher) *OrderService {
	return &OrderService{
		db:        repo.OrderRepo,
		completed: repo.CompletedRepo,
		stock:     stock,
		pub:       pub,
		lg:        logger.New("order-service"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (or *OrderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (domain.Order, error) {
	req.Customer = strings.TrimSpace(req.Customer)
	if req.Customer == "" || len(req.Items) == 0 {
		return domain.Order{}, domain.Invalid("Customer and items are required")
	}
	if err := validate.Struct(req, ""); err != nil {
		return domain.Order{}, err
	}

	total := CalculateTotal(req.Items)
	number, err := or.db.NextOrderNumber(ctx)
	if err != nil {
		return domain.Order{}, err
	}

	now := or.now()
	order := domain.Order{
		ID:                  uuid.NewString(),
		OrderNumber:         number,
		Customer:            req.Customer,
		Items:               req.Items,
		Station:             orDefault(req.Station, domain.StationFrontCounter),
		Status:              domain.StatusPending,
		TotalAmount:         total,
		EstimatedPrepTime:   CalculatePrepTime(req.Items),
		Priority:            CalculatePriority(req.Items, total),
		PaymentMethod:       orDefault(req.PaymentMethod, defaultPaymentMethod),
		StaffID:             req.StaffID,
		SpecialInstructions: req.SpecialInstructions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	first := or.change(order.ID, domain.StatusPending, orDefault(req.StaffID, "system"), now)
	if err := or.db.AddOrder(ctx, order, first); err != nil {
		return domain.Order{}, err
	}

	or.lg.Info("order_created", map[string]any{
		"order_id": order.ID, "order_number": order.OrderNumber, "total": order.TotalAmount, "priority": order.Priority,
	})
	or.pub.Publish(ctx, domain.OrderUpdate(order))
	return order, nil
}

func (or *OrderService) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	return or.db.GetOrder(ctx, id)
}

// ListOrders hides orders that already have a completed snapshot unless the
// caller asked for completed orders explicitly. Hidden orders do not count
// against limit: the store is paged until limit live orders are found.
func (or *OrderService) ListOrders(ctx context.Context, statuses, station string, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	f := domain.OrderFilter{Statuses: domain.ParseStatuses(statuses), Station: station, Limit: limit}
	for _, s := range f.Statuses {
		if s == domain.StatusCompleted {
			return or.db.ListOrders(ctx, f)
		}
	}

	live := make([]domain.Order, 0, limit)
	for len(live) < limit {
		page, err := or.db.ListOrders(ctx, f)
		if err != nil {
			return nil, err
		}
		kept, err := or.dropCompleted(ctx, page)
		if err != nil {
			return nil, err
		}
		live = append(live, kept...)
		if len(page) < f.Limit {
			break
		}
		f.Offset += len(page)
	}
	if len(live) > limit {
		live = live[:limit]
	}
	return live, nil
}

func (or *OrderService) StationOrders(ctx context.Context, station, statuses string) ([]domain.Order, error) {
	return or.db.ListOrders(ctx, domain.OrderFilter{Station: station, Statuses: domain.ParseStatuses(statuses)})
}

func (or *OrderService) dropCompleted(ctx context.Context, orders []domain.Order) ([]domain.Order, error) {
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	done, err := or.completed.Completed(ctx, ids)
	if err != nil {
		return nil, err
	}
	live := orders[:0]
	for _, o := range orders {
		if !done[o.ID] {
			live = append(live, o)
		}
	}
	return live, nil
}

// UpdateStatus accepts any of the five statuses from any status. Entering
// completed stamps completedAt, snapshots the order and deducts stock; those
// side effects are logged on failure and never fail the update.
func (or *OrderService) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (domain.Order, error) {
	if req.Status == "" {
		return domain.Order{}, domain.Invalid("Status is required")
	}
	if !req.Status.Valid() {
		return domain.Order{}, domain.Invalid("Invalid status")
	}

	now := or.now()
	var prev domain.OrderStatus
	order, err := or.db.MutateOrder(ctx, id, func(o *domain.Order) error {
		prev = o.Status
		o.Status = req.Status
		o.UpdatedAt = now
		if req.Status == domain.StatusCompleted && prev != domain.StatusCompleted {
			o.CompletedAt = &now
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	change := or.change(order.ID, order.Status, orDefault(req.UpdatedBy, "system"), now)
	if err := or.db.AppendHistory(ctx, change); err != nil {
		or.lg.Error("order_history_failed", err, map[string]any{"order_id": order.ID})
	}
	or.lg.Info("order_status_changed", map[string]any{
		"order_id": order.ID, "old_status": prev, "new_status": order.Status, "changed_by": change.UpdatedBy,
	})

	if order.Status == domain.StatusCompleted && prev != domain.StatusCompleted {
		or.onCompleted(ctx, order)
	}
	or.pub.Publish(ctx, domain.OrderUpdate(order))
	return order, nil
}

func (or *OrderService) onCompleted(ctx context.Context, order domain.Order) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	created, err := or.completed.SaveSnapshot(ctx, domain.NewCompletedOrder(order))
	if err != nil {
		or.lg.Error("completed_snapshot_failed", err, map[string]any{"order_id": order.ID})
	} else if !created {
		// completed before and reopened: stock was consumed the first time
		or.lg.Debug("completed_snapshot_exists", map[string]any{"order_id": order.ID})
		return
	}

	if err := or.stock.DeductForOrder(ctx, order.ID, order.Items); err != nil {
		or.lg.Error("inventory_deduction_failed", err, map[string]any{"order_id": order.ID})
	}
}

func (or *OrderService) AddItems(ctx context.Context, id string, req dto.AddItemsRequest) (domain.Order, error) {
	// an empty array is accepted and only recomputes the order
	if req.Items == nil {
		return domain.Order{}, domain.Invalid("Items array is required")
	}
	if err := validate.Struct(req, ""); err != nil {
		return domain.Order{}, err
	}
	now := or.now()
	order, err := or.db.MutateOrder(ctx, id, func(o *domain.Order) error {
		if o.Status.Closed() {
			return domain.Invalid("Cannot add items to completed or cancelled order")
		}
		o.Items = append(o.Items, req.Items...)
		o.TotalAmount = CalculateTotal(o.Items)
		o.EstimatedPrepTime = CalculatePrepTime(o.Items)
		o.Priority = CalculatePriority(o.Items, o.TotalAmount)
		o.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	or.pub.Publish(ctx, domain.OrderUpdate(order))
	return order, nil
}

func (or *OrderService) History(ctx context.Context, id string) ([]domain.OrderStatusChange, error) {
	if _, err := or.db.GetOrder(ctx, id); err != nil {
		return nil, err
	}
	return or.db.History(ctx, id)
}

func (or *OrderService) CompletedBetween(ctx context.Context, from, to time.Time) ([]domain.CompletedOrder, error) {
	return or.completed.ListCompleted(ctx, from, to)
}

func (or *OrderService) change(orderID string, st domain.OrderStatus, by string, at time.Time) domain.OrderStatusChange {
	return domain.OrderStatusChange{ID: uuid.NewString(), OrderID: orderID, Status: st, UpdatedBy: by, Timestamp: at}
}

func orDefault(v, d string) string {
	if strings.TrimSpace(v) == "" {
		return d
	}
	return v
}
