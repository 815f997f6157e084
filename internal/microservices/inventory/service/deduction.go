package service

import (
	"sort"

	"cafesync/internal/domain"
)

// Per-unit ingredient usage keyed by menu item name, then inventory id.
var deductionTable = map[string]map[string]float64{
	"Latte":         {"coffee-beans-1": 0.1, "milk-whole-1": 0.2},
	"Cappuccino":    {"coffee-beans-1": 0.1, "milk-whole-1": 0.15},
	"Americano":     {"coffee-beans-1": 0.1},
	"Espresso":      {"coffee-beans-1": 0.05},
	"Vanilla Latte": {"coffee-beans-1": 0.1, "milk-whole-1": 0.2, "syrup-vanilla-1": 0.05},
}

type usage struct {
	itemID string
	amount float64
}

// ingredientUsage sums the table over the order lines. Items without a
// recipe are skipped. Output is sorted by inventory id.
func ingredientUsage(items []domain.OrderItem) []usage {
	total := make(map[string]float64)
	for _, it := range items {
		recipe, ok := deductionTable[it.Name]
		if !ok {
			continue
		}
		for id, per := range recipe {
			total[id] += per * float64(it.Quantity)
		}
	}
	out := make([]usage, 0, len(total))
	for id, amt := range total {
		out = append(out, usage{itemID: id, amount: amt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].itemID < out[j].itemID })
	return out
}
