package domain

import "time"

type StockOperation string

const (
	StockAdd      StockOperation = "add"
	StockSubtract StockOperation = "subtract"
	StockSet      StockOperation = "set"
	// StockDeduct marks automatic consumption on order completion.
	StockDeduct StockOperation = "deduct"
)

// Apply returns the new stock level. Subtraction never goes below zero.
func (op StockOperation) Apply(current, qty float64) (float64, bool) {
	switch op {
	case StockAdd:
		return current + qty, true
	case StockSubtract, StockDeduct:
		return max(0, current-qty), true
	case StockSet:
		return qty, true
	default:
		return current, false
	}
}

type InventoryItem struct {
	ID            string     `json:"id" firestore:"id"`
	Name          string     `json:"name" firestore:"name"`
	Category      string     `json:"category" firestore:"category"`
	CurrentStock  float64    `json:"currentStock" firestore:"currentStock"`
	MinStock      float64    `json:"minStock" firestore:"minStock"`
	MaxStock      float64    `json:"maxStock" firestore:"maxStock"`
	Unit          string     `json:"unit" firestore:"unit"`
	CostPerUnit   float64    `json:"costPerUnit" firestore:"costPerUnit"`
	Supplier      string     `json:"supplier" firestore:"supplier"`
	Location      string     `json:"location" firestore:"location"`
	LastRestocked time.Time  `json:"lastRestocked" firestore:"lastRestocked"`
	LastUpdated   time.Time  `json:"lastUpdated" firestore:"lastUpdated"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty" firestore:"expiryDate,omitempty"`
}

func (i InventoryItem) LowStock() bool { return i.CurrentStock <= i.MinStock }

type InventoryHistoryEntry struct {
	ID        string         `json:"id" firestore:"id"`
	ItemID    string         `json:"itemId" firestore:"itemId"`
	ItemName  string         `json:"itemName" firestore:"itemName"`
	Operation StockOperation `json:"operation" firestore:"operation"`
	Quantity  float64        `json:"quantity" firestore:"quantity"`
	OldStock  float64        `json:"oldStock" firestore:"oldStock"`
	NewStock  float64        `json:"newStock" firestore:"newStock"`
	Reason    string         `json:"reason" firestore:"reason"`
	UpdatedBy string         `json:"updatedBy" firestore:"updatedBy"`
	Timestamp time.Time      `json:"timestamp" firestore:"timestamp"`
}

type StockAdjustment struct {
	ItemID    string
	Operation StockOperation
	Quantity  float64
	Reason    string
	UpdatedBy string
}

type InventoryFilter struct {
	Category string
	Location string
	LowStock bool
}

func (f InventoryFilter) Matches(i InventoryItem) bool {
	if f.Category != "" && i.Category != f.Category {
		return false
	}
	if f.Location != "" && i.Location != f.Location {
		return false
	}
	return !f.LowStock || i.LowStock()
}
