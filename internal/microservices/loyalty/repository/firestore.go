package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	fb "cafesync/internal/connections/firebase"
	"cafesync/internal/domain"
)

const (
	customersCollection    = "loyaltyCustomers"
	transactionsCollection = "loyaltyTransactions"
)

type FirestoreLoyaltyRepository struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *FirestoreLoyaltyRepository {
	return &FirestoreLoyaltyRepository{client: client}
}

func (r *FirestoreLoyaltyRepository) customers() *firestore.CollectionRef {
	return r.client.Collection(customersCollection)
}

func (r *FirestoreLoyaltyRepository) List(ctx context.Context, tier domain.Tier) ([]domain.LoyaltyCustomer, error) {
	q := r.customers().Query
	if tier != "" {
		q = q.Where("tier", "==", string(tier))
	}
	return fb.Collect[domain.LoyaltyCustomer](q.Documents(ctx))
}

func (r *FirestoreLoyaltyRepository) Get(ctx context.Context, id string) (domain.LoyaltyCustomer, error) {
	snap, err := r.customers().Doc(id).Get(ctx)
	if fb.IsNotFound(err) {
		return domain.LoyaltyCustomer{}, notFound()
	}
	if err != nil {
		return domain.LoyaltyCustomer{}, fmt.Errorf("failed to get customer: %w", err)
	}
	var c domain.LoyaltyCustomer
	return c, snap.DataTo(&c)
}

func (r *FirestoreLoyaltyRepository) Create(ctx context.Context, c domain.LoyaltyCustomer) error {
	byEmail := r.customers().Where("email", "==", c.Email).Limit(1)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(byEmail).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return duplicateEmail()
		}
		return tx.Create(r.customers().Doc(c.ID), c)
	})
}

func (r *FirestoreLoyaltyRepository) Mutate(ctx context.Context, id string, fn MutateFunc) (domain.LoyaltyCustomer, error) {
	ref := r.customers().Doc(id)
	var out domain.LoyaltyCustomer
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if fb.IsNotFound(err) {
			return notFound()
		}
		if err != nil {
			return err
		}
		var c domain.LoyaltyCustomer
		if err := snap.DataTo(&c); err != nil {
			return err
		}
		t, err := fn(&c)
		if err != nil {
			return err
		}
		if err := tx.Set(ref, c); err != nil {
			return err
		}
		if t != nil {
			if err := tx.Create(r.client.Collection(transactionsCollection).Doc(t.ID), *t); err != nil {
				return err
			}
		}
		out = c
		return nil
	})
	return out, err
}

func (r *FirestoreLoyaltyRepository) Transactions(ctx context.Context, customerID string, limit int) ([]domain.LoyaltyTransaction, error) {
	q := r.client.Collection(transactionsCollection).
		Where("customerId", "==", customerID).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit)
	return fb.Collect[domain.LoyaltyTransaction](q.Documents(ctx))
}

func (r *FirestoreLoyaltyRepository) PointTotals(ctx context.Context) (int, int, error) {
	txs, err := fb.Collect[domain.LoyaltyTransaction](r.client.Collection(transactionsCollection).Documents(ctx))
	if err != nil {
		return 0, 0, err
	}
	var issued, redeemed int
	for _, t := range txs {
		switch t.Type {
		case domain.TxEarned:
			issued += t.Points
		case domain.TxRedemption:
			redeemed += abs(t.Points)
		}
	}
	return issued, redeemed, nil
}

func (r *FirestoreLoyaltyRepository) Seed(ctx context.Context, customers []domain.LoyaltyCustomer, txs []domain.LoyaltyTransaction) error {
	for _, c := range customers {
		if _, err := r.customers().Doc(c.ID).Create(ctx, c); err != nil {
			if fb.IsAlreadyExists(err) {
				continue
			}
			return fmt.Errorf("failed to seed customer %s: %w", c.ID, err)
		}
		for _, t := range txs {
			if t.CustomerID != c.ID {
				continue
			}
			if _, err := r.client.Collection(transactionsCollection).Doc(t.ID).Create(ctx, t); err != nil && !fb.IsAlreadyExists(err) {
				return fmt.Errorf("failed to seed loyalty transaction %s: %w", t.ID, err)
			}
		}
	}
	return nil
}
