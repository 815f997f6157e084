package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cafesync/internal/common/logger"
	"cafesync/internal/domain"
	dto "cafesync/internal/microservices/analytics/domain/dto"
)

const (
	topSellingLimit = 10
	dashboardTop    = 5
	unassignedStaff = "unassigned"
	liveOrdersScan  = 1000
)

// OrderSource reads completed snapshots and live orders.
type OrderSource interface {
	CompletedBetween(ctx context.Context, from, to time.Time) ([]domain.CompletedOrder, error)
	ListOrders(ctx context.Context, statuses, station string, limit int) ([]domain.Order, error)
}

type StockSource interface {
	LowStock(ctx context.Context) ([]domain.InventoryItem, error)
}

type AnalyticsServiceInterface interface {
	Sales(ctx context.Context, period string) (dto.Sales, error)
	Staff(ctx context.Context, period string) (dto.Staff, error)
	Revenue(ctx context.Context, period string) (dto.Revenue, error)
	Customers(ctx context.Context, period string) (dto.Customers, error)
	Dashboard(ctx context.Context) (dto.Dashboard, error)
}

type AnalyticsService struct {
	orders OrderSource
	stock  StockSource
	lg     *logger.Logger
	now    func() time.Time
}

func NewAnalyticsService(orders OrderSource, stock StockSource) *AnalyticsService {
	return &AnalyticsService{
		orders: orders,
		stock:  stock,
		lg:     logger.New("analytics-service"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (as *AnalyticsService) completed(ctx context.Context, period string) (string, []domain.CompletedOrder, error) {
	now := as.now()
	period, from := periodStart(period, now)
	orders, err := as.orders.CompletedBetween(ctx, from, now)
	return period, orders, err
}

func money(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func avg(total decimal.Decimal, n int) float64 {
	if n == 0 {
		return 0
	}
	return money(total.Div(decimal.NewFromInt(int64(n))))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func topItems(orders []domain.CompletedOrder, limit int) []dto.ItemSales {
	byName := make(map[string]*dto.ItemSales)
	revenue := make(map[string]decimal.Decimal)
	for _, o := range orders {
		for _, it := range o.Items {
			s, ok := byName[it.Name]
			if !ok {
				s = &dto.ItemSales{Name: it.Name}
				byName[it.Name] = s
			}
			s.Quantity += it.Quantity
			revenue[it.Name] = revenue[it.Name].Add(dec(it.EffectivePrice()).Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	out := make([]dto.ItemSales, 0, len(byName))
	for name, s := range byName {
		s.Revenue = money(revenue[name])
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func itemCount(o domain.CompletedOrder) int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

func (as *AnalyticsService) Sales(ctx context.Context, period string) (dto.Sales, error) {
	period, orders, err := as.completed(ctx, period)
	if err != nil {
		return dto.Sales{}, err
	}
	total := decimal.Zero
	hourly := make(map[string]decimal.Decimal)
	out := dto.Sales{Period: period, TotalOrders: len(orders), Hourly: map[string]dto.HourBucket{}}
	for _, o := range orders {
		total = total.Add(dec(o.TotalAmount))
		h := hourKey(completedAt(o))
		b := out.Hourly[h]
		b.Orders++
		b.Items += itemCount(o)
		out.Hourly[h] = b
		hourly[h] = hourly[h].Add(dec(o.TotalAmount))
	}
	for h, b := range out.Hourly {
		b.Sales = money(hourly[h])
		out.Hourly[h] = b
	}
	out.TotalSales = money(total)
	out.AverageOrderValue = avg(total, len(orders))
	out.TopSellingItems = topItems(orders, topSellingLimit)
	return out, nil
}

// Staff groups completed orders by the employee who took them. Sales per
// hour are measured over the span between a member's first and last
// completion, at least one hour.
func (as *AnalyticsService) Staff(ctx context.Context, period string) (dto.Staff, error) {
	period, orders, err := as.completed(ctx, period)
	if err != nil {
		return dto.Staff{}, err
	}
	type acc struct {
		orders      int
		sales       decimal.Decimal
		prep        float64
		first, last time.Time
	}
	byStaff := make(map[string]*acc)
	total := decimal.Zero
	for _, o := range orders {
		id := o.AnalysisData.StaffID
		if id == "" {
			id = unassignedStaff
		}
		a, ok := byStaff[id]
		at := completedAt(o)
		if !ok {
			a = &acc{first: at, last: at}
			byStaff[id] = a
		}
		a.orders++
		a.sales = a.sales.Add(dec(o.TotalAmount))
		a.prep += o.AnalysisData.TotalPrepTime
		if at.Before(a.first) {
			a.first = at
		}
		if at.After(a.last) {
			a.last = at
		}
		total = total.Add(dec(o.TotalAmount))
	}
	out := dto.Staff{Period: period, TotalStaff: len(byStaff), TotalOrders: len(orders), TotalSales: money(total)}
	out.StaffPerformance = make([]dto.StaffMember, 0, len(byStaff))
	for id, a := range byStaff {
		hours := math.Max(1, a.last.Sub(a.first).Hours())
		out.StaffPerformance = append(out.StaffPerformance, dto.StaffMember{
			StaffID:         id,
			OrdersCompleted: a.orders,
			TotalSales:      money(a.sales),
			AveragePrepTime: round2(a.prep / float64(a.orders)),
			SalesPerHour:    money(a.sales.Div(dec(hours))),
		})
	}
	sort.Slice(out.StaffPerformance, func(i, j int) bool {
		return out.StaffPerformance[i].TotalSales > out.StaffPerformance[j].TotalSales
	})
	return out, nil
}

func (as *AnalyticsService) Revenue(ctx context.Context, period string) (dto.Revenue, error) {
	period, orders, err := as.completed(ctx, period)
	if err != nil {
		return dto.Revenue{}, err
	}
	total := decimal.Zero
	byMethod := make(map[string]decimal.Decimal)
	byHour := make(map[string]decimal.Decimal)
	for _, o := range orders {
		v := dec(o.TotalAmount)
		total = total.Add(v)
		byMethod[o.AnalysisData.PaymentMethod] = byMethod[o.AnalysisData.PaymentMethod].Add(v)
		h := hourKey(completedAt(o))
		byHour[h] = byHour[h].Add(v)
	}
	out := dto.Revenue{
		Period:                  period,
		TotalRevenue:            money(total),
		PaymentMethodBreakdown:  make(map[string]float64, len(byMethod)),
		HourlyRevenue:           make(map[string]float64, len(byHour)),
		AverageTransactionValue: avg(total, len(orders)),
	}
	for k, v := range byMethod {
		out.PaymentMethodBreakdown[k] = money(v)
	}
	for k, v := range byHour {
		out.HourlyRevenue[k] = money(v)
	}
	return out, nil
}

func (as *AnalyticsService) Customers(ctx context.Context, period string) (dto.Customers, error) {
	period, orders, err := as.completed(ctx, period)
	if err != nil {
		return dto.Customers{}, err
	}
	visits := make(map[string]int)
	spent := make(map[string]decimal.Decimal)
	out := dto.Customers{Period: period, TotalTransactions: len(orders), FrequentCustomers: []dto.FrequentCustomer{}}
	for _, o := range orders {
		if o.AnalysisData.CustomerType == "takeout" {
			out.Takeout++
			continue
		}
		out.DineIn++
		name := strings.TrimSpace(o.Customer)
		visits[name]++
		spent[name] = spent[name].Add(dec(o.TotalAmount))
	}
	out.UniqueCustomers = len(visits)
	if out.UniqueCustomers > 0 {
		out.AverageTransactionsPerCustomer = round2(float64(out.DineIn) / float64(out.UniqueCustomers))
	}
	for name, n := range visits {
		if n > 1 {
			out.FrequentCustomers = append(out.FrequentCustomers, dto.FrequentCustomer{Customer: name, Visits: n, TotalSpent: money(spent[name])})
		}
	}
	sort.Slice(out.FrequentCustomers, func(i, j int) bool {
		a, b := out.FrequentCustomers[i], out.FrequentCustomers[j]
		if a.Visits != b.Visits {
			return a.Visits > b.Visits
		}
		return a.Customer < b.Customer
	})
	if len(out.FrequentCustomers) > topSellingLimit {
		out.FrequentCustomers = out.FrequentCustomers[:topSellingLimit]
	}
	return out, nil
}

// Dashboard summarizes today together with the live queue and stock alerts.
func (as *AnalyticsService) Dashboard(ctx context.Context) (dto.Dashboard, error) {
	_, orders, err := as.completed(ctx, PeriodToday)
	if err != nil {
		return dto.Dashboard{}, err
	}
	out := dto.Dashboard{
		TotalOrders:        len(orders),
		PaymentMethods:     map[string]int{},
		CustomerTypes:      map[string]int{},
		HourlyDistribution: map[string]int{},
		TopItems:           topItems(orders, dashboardTop),
	}
	total := decimal.Zero
	prep := 0.0
	for _, o := range orders {
		total = total.Add(dec(o.TotalAmount))
		prep += o.AnalysisData.TotalPrepTime
		out.PaymentMethods[o.AnalysisData.PaymentMethod]++
		out.CustomerTypes[o.AnalysisData.CustomerType]++
		out.HourlyDistribution[hourKey(completedAt(o))]++
	}
	out.TotalRevenue = money(total)
	out.AverageOrderValue = avg(total, len(orders))
	if len(orders) > 0 {
		out.AveragePrepTime = round2(prep / float64(len(orders)))
	}

	live, err := as.orders.ListOrders(ctx, "pending,preparing,ready", "", liveOrdersScan)
	if err != nil {
		return dto.Dashboard{}, err
	}
	out.ActiveOrders = len(live)
	low, err := as.stock.LowStock(ctx)
	if err != nil {
		return dto.Dashboard{}, err
	}
	out.LowStockCount = len(low)
	return out, nil
}
