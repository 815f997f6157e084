package domain

import "time"

type MenuItem struct {
	ID              int       `json:"id" firestore:"id"`
	Name            string    `json:"name" firestore:"name"`
	Price           float64   `json:"price" firestore:"price"`
	Category        string    `json:"category" firestore:"category"`
	Description     string    `json:"description" firestore:"description"`
	ImageURL        string    `json:"imageUrl" firestore:"imageUrl"`
	IsAvailable     bool      `json:"isAvailable" firestore:"isAvailable"`
	PreparationTime int       `json:"preparationTime" firestore:"preparationTime"`
	Ingredients     []string  `json:"ingredients" firestore:"ingredients"`
	Allergens       []string  `json:"allergens" firestore:"allergens"`
	CreatedAt       time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// MenuPatch is a partial update; nil fields are left alone.
type MenuPatch struct {
	ID              int       `json:"id" validate:"required"`
	Name            *string   `json:"name,omitempty" validate:"omitempty,min=1"`
	Price           *float64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	Category        *string   `json:"category,omitempty" validate:"omitempty,min=1"`
	Description     *string   `json:"description,omitempty"`
	ImageURL        *string   `json:"imageUrl,omitempty"`
	IsAvailable     *bool     `json:"isAvailable,omitempty"`
	PreparationTime *int      `json:"preparationTime,omitempty" validate:"omitempty,gte=0"`
	Ingredients     *[]string `json:"ingredients,omitempty"`
	Allergens       *[]string `json:"allergens,omitempty"`
}

func (p MenuPatch) Apply(m MenuItem) MenuItem {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Price != nil {
		m.Price = *p.Price
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.ImageURL != nil {
		m.ImageURL = *p.ImageURL
	}
	if p.IsAvailable != nil {
		m.IsAvailable = *p.IsAvailable
	}
	if p.PreparationTime != nil {
		m.PreparationTime = *p.PreparationTime
	}
	if p.Ingredients != nil {
		m.Ingredients = *p.Ingredients
	}
	if p.Allergens != nil {
		m.Allergens = *p.Allergens
	}
	return m
}

type MenuFilter struct {
	Category  string
	Available *bool
}

func (f MenuFilter) Matches(m MenuItem) bool {
	if f.Category != "" && f.Category != "All" && m.Category != f.Category {
		return false
	}
	return f.Available == nil || m.IsAvailable == *f.Available
}
