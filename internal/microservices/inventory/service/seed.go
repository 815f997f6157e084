package service

import (
	"time"

	"cafesync/internal/domain"
)

func seedItems(now time.Time) []domain.InventoryItem {
	return []domain.InventoryItem{
		{
			ID: "coffee-beans-1", Name: "Premium Arabica Beans", Category: "coffee",
			CurrentStock: 50, MinStock: 10, MaxStock: 100, Unit: "lbs", CostPerUnit: 12.50,
			Supplier: "Coffee Supply Co.", Location: "storage-room-a",
			LastRestocked: now, LastUpdated: now,
		},
		{
			ID: "milk-whole-1", Name: "Whole Milk", Category: "dairy",
			CurrentStock: 25, MinStock: 5, MaxStock: 50, Unit: "gallons", CostPerUnit: 3.50,
			Supplier: "Dairy Fresh", Location: "refrigerator-1",
			LastRestocked: now, LastUpdated: now,
		},
		{
			ID: "syrup-vanilla-1", Name: "Vanilla Syrup", Category: "syrups",
			CurrentStock: 8, MinStock: 3, MaxStock: 20, Unit: "bottles", CostPerUnit: 8.99,
			Supplier: "Flavor Masters", Location: "shelf-b2",
			LastRestocked: now, LastUpdated: now,
		},
	}
}
