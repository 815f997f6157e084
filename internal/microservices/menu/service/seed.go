package service

import (
	"time"

	"cafesync/internal/domain"
)

func seedMenu(now time.Time) []domain.MenuItem {
	item := func(id int, name string, price float64, category, desc string, prep int, ingredients, allergens []string) domain.MenuItem {
		return domain.MenuItem{
			ID: id, Name: name, Price: price, Category: category, Description: desc,
			IsAvailable: true, PreparationTime: prep,
			Ingredients: ingredients, Allergens: allergens,
			CreatedAt: now, UpdatedAt: now,
		}
	}
	return []domain.MenuItem{
		item(1, "Latte", 4.50, "Hot Drinks", "Rich espresso with steamed milk", 3, []string{"Coffee Beans", "Milk"}, []string{"Dairy"}),
		item(2, "Cappuccino", 4.25, "Hot Drinks", "Espresso with equal parts steamed milk and foam", 3, []string{"Coffee Beans", "Milk"}, []string{"Dairy"}),
		item(3, "Americano", 3.50, "Hot Drinks", "Espresso with hot water", 2, []string{"Coffee Beans", "Water"}, []string{}),
		item(4, "Espresso", 2.75, "Hot Drinks", "Pure espresso shot", 1, []string{"Coffee Beans"}, []string{}),
		item(5, "Iced Coffee", 3.75, "Cold Drinks", "Cold brewed coffee over ice", 2, []string{"Coffee Beans", "Ice"}, []string{}),
		item(6, "Croissant", 3.25, "Pastries", "Buttery flaky pastry", 1, []string{"Flour", "Butter", "Eggs"}, []string{"Gluten", "Dairy", "Eggs"}),
		item(7, "Blueberry Muffin", 2.95, "Pastries", "Fresh baked muffin with blueberries", 1, []string{"Flour", "Eggs", "Blueberries"}, []string{"Gluten", "Eggs"}),
		item(8, "Caramel Macchiato", 5.25, "specialty", "Vanilla, steamed milk, espresso and caramel drizzle", 4, []string{"Coffee Beans", "Milk", "Caramel"}, []string{"Dairy"}),
	}
}
