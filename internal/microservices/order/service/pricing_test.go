package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cafesync/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestCalculateTotal(t *testing.T) {
	items := []domain.OrderItem{
		{Name: "Latte", Quantity: 2, Price: 4.5},
		{Name: "Croissant", Quantity: 3, Price: 3.25, UnitPrice: ptr(3.0)},
		{Name: "Espresso", Quantity: 1, Price: 0.1},
		{Name: "Espresso", Quantity: 1, Price: 0.2},
	}
	assert.Equal(t, 18.3, CalculateTotal(items))
	assert.Zero(t, CalculateTotal(nil))
}

func TestCalculatePrepTime(t *testing.T) {
	latte := domain.OrderItem{Name: "Latte", Quantity: 2, Price: 4.5}
	assert.Equal(t, 3, CalculatePrepTime([]domain.OrderItem{latte}))
	assert.Equal(t, 5, CalculatePrepTime([]domain.OrderItem{latte, latte, latte}))

	special := domain.OrderItem{Name: "Caramel Macchiato", Quantity: 1, Category: "specialty"}
	assert.Equal(t, 6, CalculatePrepTime([]domain.OrderItem{latte, special}))

	extras := domain.OrderItem{Name: "Latte", Quantity: 1, Customizations: &domain.Customizations{Extras: []string{"Extra shot"}}}
	assert.Equal(t, 5, CalculatePrepTime([]domain.OrderItem{extras}))

	mods := domain.OrderItem{Name: "Latte", Quantity: 1, Modifiers: []string{"oat"}}
	assert.Equal(t, 5, CalculatePrepTime([]domain.OrderItem{mods}))
}

func TestCalculatePrepTimeMonotonic(t *testing.T) {
	for _, complex := range []bool{false, true} {
		var items []domain.OrderItem
		prev := 0
		for n := 1; n <= 20; n++ {
			it := domain.OrderItem{Name: "Latte", Quantity: 1}
			if complex {
				it.Category = "specialty"
			}
			items = append(items, it)
			got := CalculatePrepTime(items)
			assert.GreaterOrEqual(t, got, prev)
			prev = got
		}
	}
}

func TestCalculatePriority(t *testing.T) {
	small := []domain.OrderItem{{Name: "Latte", Quantity: 1, Price: 4.5}}
	assert.Equal(t, domain.PriorityNormal, CalculatePriority(small, 4.5))
	assert.Equal(t, domain.PriorityHigh, CalculatePriority(small, 50.01))
	assert.Equal(t, domain.PriorityNormal, CalculatePriority(small, 30))

	many := make([]domain.OrderItem, 5)
	assert.Equal(t, domain.PriorityNormal, CalculatePriority(many, 10))

	special := []domain.OrderItem{{Name: "Caramel Macchiato", Category: "specialty", Quantity: 1}}
	assert.Equal(t, domain.PriorityHigh, CalculatePriority(special, 5.25))
}
