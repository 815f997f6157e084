package dto

import "cafesync/internal/domain"

type CreateMenuItemRequest struct {
	Name            string   `json:"name" validate:"required"`
	Price           *float64 `json:"price" validate:"required,gt=0"`
	Category        string   `json:"category" validate:"required"`
	Description     string   `json:"description"`
	ImageURL        string   `json:"imageUrl"`
	IsAvailable     *bool    `json:"isAvailable,omitempty"`
	PreparationTime int      `json:"preparationTime" validate:"gte=0"`
	Ingredients     []string `json:"ingredients"`
	Allergens       []string `json:"allergens"`
}

type BulkUpdateRequest struct {
	Updates []domain.MenuPatch `json:"updates" validate:"required,dive"`
}
