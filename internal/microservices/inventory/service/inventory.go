package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cafesync/internal/common/logger"
	"cafesync/internal/common/validate"
	"cafesync/internal/domain"
	dto "cafesync/internal/microservices/inventory/domain/dto"
	"cafesync/internal/microservices/inventory/repository"
)

const (
	defaultMinStock = 5
	defaultMaxStock = 100
	defaultSupplier = "Unknown"
	defaultLocation = "storage"
	defaultReason   = "Manual adjustment"
	defaultActor    = "system"
	historyLimit    = 50
)

// Publisher pushes events to connected stations.
type Publisher interface {
	Publish(ctx context.Context, ev domain.Event)
}

type InventoryServiceInterface interface {
	List(ctx context.Context, f domain.InventoryFilter) ([]domain.InventoryItem, error)
	Get(ctx context.Context, id string) (domain.InventoryItem, error)
	Create(ctx context.Context, req dto.CreateItemRequest) (domain.InventoryItem, error)
	UpdateStock(ctx context.Context, id string, req dto.UpdateStockRequest) (domain.InventoryItem, error)
	LowStock(ctx context.Context) ([]domain.InventoryItem, error)
	History(ctx context.Context, id string, limit int) ([]domain.InventoryHistoryEntry, error)
	Overview(ctx context.Context) (dto.Overview, error)
	DeductForOrder(ctx context.Context, orderID string, items []domain.OrderItem) error
	Seed(ctx context.Context) error
}

type InventoryService struct {
	db  repository.InventoryRepositoryInterface
	pub Publisher
	lg  *logger.Logger
	now func() time.Time
}

func NewInventoryService(db repository.InventoryRepositoryInterface, pub Publisher) *InventoryService {
	return &InventoryService{
		db:  db,
		pub: pub,
		lg:  logger.New("inventory-service"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (is *InventoryService) Seed(ctx context.Context) error {
	return is.db.Seed(ctx, seedItems(is.now()))
}

func (is *InventoryService) List(ctx context.Context, f domain.InventoryFilter) ([]domain.InventoryItem, error) {
	return is.db.List(ctx, f)
}

func (is *InventoryService) Get(ctx context.Context, id string) (domain.InventoryItem, error) {
	return is.db.Get(ctx, id)
}

func (is *InventoryService) Create(ctx context.Context, req dto.CreateItemRequest) (domain.InventoryItem, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Category == "" || req.CurrentStock == nil || req.Unit == "" {
		return domain.InventoryItem{}, domain.Invalid("Name, category, currentStock, and unit are required")
	}
	if err := validate.Struct(req, ""); err != nil {
		return domain.InventoryItem{}, err
	}

	now := is.now()
	item := domain.InventoryItem{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Category:      req.Category,
		CurrentStock:  *req.CurrentStock,
		MinStock:      floatOr(req.MinStock, defaultMinStock),
		MaxStock:      floatOr(req.MaxStock, defaultMaxStock),
		Unit:          req.Unit,
		CostPerUnit:   req.CostPerUnit,
		Supplier:      orDefault(req.Supplier, defaultSupplier),
		Location:      orDefault(req.Location, defaultLocation),
		LastRestocked: now,
		LastUpdated:   now,
		ExpiryDate:    req.ExpiryDate,
	}
	if err := is.db.Create(ctx, item); err != nil {
		return domain.InventoryItem{}, err
	}
	is.lg.Info("inventory_item_created", map[string]any{"item_id": item.ID, "name": item.Name})
	is.pub.Publish(ctx, domain.InventoryUpdate(item))
	return item, nil
}

func (is *InventoryService) UpdateStock(ctx context.Context, id string, req dto.UpdateStockRequest) (domain.InventoryItem, error) {
	if err := validate.Struct(req, "Quantity and operation (add/subtract/set) are required"); err != nil {
		return domain.InventoryItem{}, err
	}
	adj := domain.StockAdjustment{
		ItemID:    id,
		Operation: domain.StockOperation(req.Operation),
		Quantity:  *req.Quantity,
		Reason:    orDefault(req.Reason, defaultReason),
		UpdatedBy: orDefault(req.UpdatedBy, defaultActor),
	}
	item, _, err := is.adjust(ctx, adj)
	return item, err
}

func (is *InventoryService) adjust(ctx context.Context, adj domain.StockAdjustment) (domain.InventoryItem, domain.InventoryHistoryEntry, error) {
	item, entry, err := is.db.Adjust(ctx, adj, uuid.NewString(), is.now())
	if err != nil {
		return item, entry, err
	}
	fields := map[string]any{
		"item_id": item.ID, "operation": adj.Operation, "quantity": adj.Quantity,
		"old_stock": entry.OldStock, "new_stock": entry.NewStock,
	}
	if item.LowStock() {
		is.lg.Warn("stock_low", fields)
	} else {
		is.lg.Info("stock_adjusted", fields)
	}
	is.pub.Publish(ctx, domain.InventoryUpdate(item))
	return item, entry, nil
}

func (is *InventoryService) LowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	return is.db.List(ctx, domain.InventoryFilter{LowStock: true})
}

func (is *InventoryService) History(ctx context.Context, id string, limit int) ([]domain.InventoryHistoryEntry, error) {
	if _, err := is.db.Get(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = historyLimit
	}
	return is.db.History(ctx, id, limit)
}

func (is *InventoryService) Overview(ctx context.Context) (dto.Overview, error) {
	items, err := is.db.List(ctx, domain.InventoryFilter{})
	if err != nil {
		return dto.Overview{}, err
	}
	var (
		ov    = dto.Overview{TotalItems: len(items), CategoryBreakdown: []dto.CategoryStats{}}
		total = decimal.Zero
		byCat = make(map[string]*dto.CategoryStats)
		value = make(map[string]decimal.Decimal)
	)
	for _, it := range items {
		v := decimal.NewFromFloat(it.CurrentStock).Mul(decimal.NewFromFloat(it.CostPerUnit))
		total = total.Add(v)
		cs, ok := byCat[it.Category]
		if !ok {
			cs = &dto.CategoryStats{Category: it.Category}
			byCat[it.Category] = cs
		}
		cs.Count++
		cs.TotalStock += it.CurrentStock
		value[it.Category] = value[it.Category].Add(v)
		if it.LowStock() {
			cs.LowStock++
			ov.LowStockCount++
		}
	}
	for cat, cs := range byCat {
		cs.TotalValue = value[cat].Round(2).InexactFloat64()
		ov.CategoryBreakdown = append(ov.CategoryBreakdown, *cs)
	}
	sort.Slice(ov.CategoryBreakdown, func(i, j int) bool {
		return ov.CategoryBreakdown[i].Category < ov.CategoryBreakdown[j].Category
	})
	ov.TotalValue = total.Round(2).InexactFloat64()
	ov.Categories = len(byCat)
	return ov, nil
}

// DeductForOrder consumes recipe ingredients for a completed order. Stock is
// not checked beforehand and clamps at zero. Every ingredient is attempted;
// failures are joined.
func (is *InventoryService) DeductForOrder(ctx context.Context, orderID string, items []domain.OrderItem) error {
	var errs []error
	for _, u := range ingredientUsage(items) {
		_, _, err := is.adjust(ctx, domain.StockAdjustment{
			ItemID:    u.itemID,
			Operation: domain.StockDeduct,
			Quantity:  u.amount,
			Reason:    "Order " + orderID + " completed",
			UpdatedBy: defaultActor,
		})
		if errors.Is(err, domain.ErrNotFound) {
			is.lg.Warn("deduction_item_missing", map[string]any{"order_id": orderID, "item_id": u.itemID})
			continue
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
