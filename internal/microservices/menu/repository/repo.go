package repository

import (
	"context"

	"cafesync/internal/domain"
)

type MenuRepositoryInterface interface {
	// List returns every item ordered by id.
	List(ctx context.Context) ([]domain.MenuItem, error)
	Get(ctx context.Context, id int) (domain.MenuItem, error)
	// Create assigns the next id (highest existing + 1) and stores the item.
	Create(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	Update(ctx context.Context, id int, fn func(domain.MenuItem) domain.MenuItem) (domain.MenuItem, error)
	Delete(ctx context.Context, id int) error
	Seed(ctx context.Context, items []domain.MenuItem) error
}

func notFound() error { return domain.NotFound("Menu item not found") }
