package dto

import "time"

type CreateItemRequest struct {
	Name         string     `json:"name" validate:"required"`
	Category     string     `json:"category" validate:"required"`
	CurrentStock *float64   `json:"currentStock" validate:"required,gte=0"`
	Unit         string     `json:"unit" validate:"required"`
	MinStock     *float64   `json:"minStock,omitempty" validate:"omitempty,gte=0"`
	MaxStock     *float64   `json:"maxStock,omitempty" validate:"omitempty,gte=0"`
	CostPerUnit  float64    `json:"costPerUnit" validate:"gte=0"`
	Supplier     string     `json:"supplier"`
	Location     string     `json:"location"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
}

type UpdateStockRequest struct {
	Quantity  *float64 `json:"quantity" validate:"required,gt=0"`
	Operation string   `json:"operation" validate:"required,stock_operation"`
	Reason    string   `json:"reason"`
	UpdatedBy string   `json:"updatedBy"`
}

type CategoryStats struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	TotalStock float64 `json:"totalStock"`
	TotalValue float64 `json:"totalValue"`
	LowStock   int     `json:"lowStock"`
}

type Overview struct {
	TotalItems        int             `json:"totalItems"`
	LowStockCount     int             `json:"lowStockCount"`
	TotalValue        float64         `json:"totalValue"`
	Categories        int             `json:"categories"`
	CategoryBreakdown []CategoryStats `json:"categoryBreakdown"`
}
