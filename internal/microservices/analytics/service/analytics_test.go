package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafesync/internal/domain"
	dto "cafesync/internal/microservices/analytics/domain/dto"
)

var now = time.Date(2024, 1, 20, 15, 0, 0, 0, time.UTC)

type fakeOrders struct {
	completed []domain.CompletedOrder
	live      []domain.Order
}

func (f *fakeOrders) CompletedBetween(_ context.Context, from, to time.Time) ([]domain.CompletedOrder, error) {
	var out []domain.CompletedOrder
	for _, c := range f.completed {
		at := completedAt(c)
		if !at.Before(from) && !at.After(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeOrders) ListOrders(context.Context, string, string, int) ([]domain.Order, error) {
	return f.live, nil
}

type fakeStock struct{ low []domain.InventoryItem }

func (f fakeStock) LowStock(context.Context) ([]domain.InventoryItem, error) { return f.low, nil }

func completed(customer, payment, staff string, at time.Time, prep float64, items ...domain.OrderItem) domain.CompletedOrder {
	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	kind := "dine-in"
	if customer == domain.CustomerTakeout {
		kind = "takeout"
	}
	return domain.CompletedOrder{
		Order: domain.Order{
			Customer: customer, Items: items, TotalAmount: total, PaymentMethod: payment,
			StaffID: staff, Status: domain.StatusCompleted, CompletedAt: &at,
		},
		AnalysisData: domain.AnalysisData{
			TotalPrepTime: prep, OrderValue: total, CustomerType: kind, PaymentMethod: payment, StaffID: staff,
		},
	}
}

func latte(q int) domain.OrderItem { return domain.OrderItem{Name: "Latte", Quantity: q, Price: 4.5} }

func newTestService() *AnalyticsService {
	day := func(h, m int) time.Time { return time.Date(2024, 1, 20, h, m, 0, 0, time.UTC) }
	orders := &fakeOrders{
		completed: []domain.CompletedOrder{
			completed("Table 4", "card", "barista@cafesync.com", day(9, 10), 5, latte(2)),
			completed(domain.CustomerTakeout, "cash", "barista@cafesync.com", day(9, 40), 3,
				domain.OrderItem{Name: "Croissant", Quantity: 1, Price: 3.25}),
			completed("Table 4", "card", "", day(14, 5), 4, latte(1),
				domain.OrderItem{Name: "Espresso", Quantity: 1, Price: 2.75}),
			completed("Table 9", "card", "", day(9, 0).AddDate(0, 0, -1), 2, latte(1)),
		},
		live: []domain.Order{{ID: "a"}, {ID: "b"}},
	}
	svc := NewAnalyticsService(orders, fakeStock{low: []domain.InventoryItem{{ID: "milk-whole-1"}}})
	svc.now = func() time.Time { return now }
	return svc
}

func TestSales(t *testing.T) {
	svc := newTestService()

	s, err := svc.Sales(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, PeriodToday, s.Period)
	assert.Equal(t, 19.5, s.TotalSales)
	assert.Equal(t, 3, s.TotalOrders)
	assert.Equal(t, 6.5, s.AverageOrderValue)
	assert.Equal(t, dto.HourBucket{Sales: 12.25, Orders: 2, Items: 3}, s.Hourly["09:00"])
	assert.Equal(t, dto.HourBucket{Sales: 7.25, Orders: 1, Items: 2}, s.Hourly["14:00"])
	require.Len(t, s.TopSellingItems, 3)
	assert.Equal(t, dto.ItemSales{Name: "Latte", Quantity: 3, Revenue: 13.5}, s.TopSellingItems[0])
	assert.Equal(t, "Croissant", s.TopSellingItems[1].Name)

	week, err := svc.Sales(context.Background(), PeriodWeek)
	require.NoError(t, err)
	assert.Equal(t, 4, week.TotalOrders)
	assert.Equal(t, 24.0, week.TotalSales)
}

func TestStaff(t *testing.T) {
	svc := newTestService()

	s, err := svc.Staff(context.Background(), PeriodToday)
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalStaff)
	assert.Equal(t, 3, s.TotalOrders)
	require.Len(t, s.StaffPerformance, 2)
	top := s.StaffPerformance[0]
	assert.Equal(t, "barista@cafesync.com", top.StaffID)
	assert.Equal(t, 2, top.OrdersCompleted)
	assert.Equal(t, 12.25, top.TotalSales)
	assert.Equal(t, 4.0, top.AveragePrepTime)
	assert.Equal(t, 12.25, top.SalesPerHour)
	assert.Equal(t, "unassigned", s.StaffPerformance[1].StaffID)
}

func TestRevenueAndCustomers(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	rev, err := svc.Revenue(ctx, "today")
	require.NoError(t, err)
	assert.Equal(t, 19.5, rev.TotalRevenue)
	assert.Equal(t, map[string]float64{"card": 16.25, "cash": 3.25}, rev.PaymentMethodBreakdown)
	assert.Equal(t, 6.5, rev.AverageTransactionValue)

	c, err := svc.Customers(ctx, "today")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Takeout)
	assert.Equal(t, 2, c.DineIn)
	assert.Equal(t, 1, c.UniqueCustomers)
	assert.Equal(t, []dto.FrequentCustomer{{Customer: "Table 4", Visits: 2, TotalSpent: 16.25}}, c.FrequentCustomers)
}

func TestDashboard(t *testing.T) {
	svc := newTestService()

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, d.TotalOrders)
	assert.Equal(t, 19.5, d.TotalRevenue)
	assert.Equal(t, 4.0, d.AveragePrepTime)
	assert.Equal(t, 2, d.ActiveOrders)
	assert.Equal(t, 1, d.LowStockCount)
	assert.Equal(t, map[string]int{"takeout": 1, "dine-in": 2}, d.CustomerTypes)
	assert.Equal(t, 2, d.HourlyDistribution["09:00"])
}

func TestPeriodStart(t *testing.T) {
	p, from := periodStart("week", now)
	assert.Equal(t, PeriodWeek, p)
	assert.Equal(t, time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), from)

	p, from = periodStart("bogus", now)
	assert.Equal(t, PeriodToday, p)
	assert.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), from)

	_, from = periodStart("month", now)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), from)
}
