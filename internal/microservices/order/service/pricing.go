package service

import (
	"math"

	"github.com/shopspring/decimal"

	"cafesync/internal/domain"
)

const (
	basePrepMinutes    = 2
	perItemPrepMinutes = 1
	complexMultiplier  = 1.5
)

// CalculateTotal is Σ (unitPrice ?? price) × quantity, rounded to cents.
func CalculateTotal(items []domain.OrderItem) float64 {
	total := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.EffectivePrice()).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	return total.Round(2).InexactFloat64()
}

// CalculatePrepTime counts line items, not quantities.
func CalculatePrepTime(items []domain.OrderItem) int {
	multiplier := 1.0
	for _, it := range items {
		if it.Complex() {
			multiplier = complexMultiplier
			break
		}
	}
	return int(math.Ceil(float64(basePrepMinutes+len(items)*perItemPrepMinutes) * multiplier))
}

func CalculatePriority(items []domain.OrderItem, total float64) domain.Priority {
	if total > 50 {
		return domain.PriorityHigh
	}
	for _, it := range items {
		if it.Category == "specialty" {
			return domain.PriorityHigh
		}
	}
	// TODO: decide whether this tier should get its own priority level; it
	// currently returns the default.
	if total > 25 || len(items) > 3 {
		return domain.PriorityNormal
	}
	return domain.PriorityNormal
}
