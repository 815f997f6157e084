package repository

import (
	"context"

	"cafesync/internal/domain"
)

// MutateFunc edits a customer in place and may return a transaction to
// record alongside the change.
type MutateFunc func(c *domain.LoyaltyCustomer) (*domain.LoyaltyTransaction, error)

type LoyaltyRepositoryInterface interface {
	List(ctx context.Context, tier domain.Tier) ([]domain.LoyaltyCustomer, error)
	Get(ctx context.Context, id string) (domain.LoyaltyCustomer, error)
	// Create fails with a validation error when the email is taken.
	Create(ctx context.Context, c domain.LoyaltyCustomer) error
	Mutate(ctx context.Context, id string, fn MutateFunc) (domain.LoyaltyCustomer, error)
	Transactions(ctx context.Context, customerID string, limit int) ([]domain.LoyaltyTransaction, error)
	// PointTotals sums earned points and redeemed points across all customers.
	PointTotals(ctx context.Context) (issued, redeemed int, err error)
	Seed(ctx context.Context, customers []domain.LoyaltyCustomer, txs []domain.LoyaltyTransaction) error
}

func notFound() error      { return domain.NotFound("Customer not found") }
func duplicateEmail() error { return domain.Invalid("Customer with this email already exists") }
