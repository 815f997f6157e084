package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	fb "cafesync/internal/connections/firebase"
	"cafesync/internal/domain"
)

const menuCollection = "menu"

type FirestoreMenuRepository struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *FirestoreMenuRepository {
	return &FirestoreMenuRepository{client: client}
}

func (r *FirestoreMenuRepository) doc(id int) *firestore.DocumentRef {
	return r.client.Collection(menuCollection).Doc(key(id))
}

func (r *FirestoreMenuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	items, err := fb.Collect[domain.MenuItem](r.client.Collection(menuCollection).OrderBy("id", firestore.Asc).Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}
	return items, nil
}

func (r *FirestoreMenuRepository) Get(ctx context.Context, id int) (domain.MenuItem, error) {
	snap, err := r.doc(id).Get(ctx)
	if fb.IsNotFound(err) {
		return domain.MenuItem{}, notFound()
	}
	if err != nil {
		return domain.MenuItem{}, err
	}
	var m domain.MenuItem
	return m, snap.DataTo(&m)
}

func (r *FirestoreMenuRepository) Create(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	top := r.client.Collection(menuCollection).OrderBy("id", firestore.Desc).Limit(1)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		last, err := fb.Collect[domain.MenuItem](tx.Documents(top))
		if err != nil {
			return err
		}
		item.ID = 1
		if len(last) > 0 {
			item.ID = last[0].ID + 1
		}
		return tx.Create(r.doc(item.ID), item)
	})
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("failed to insert menu item: %w", err)
	}
	return item, nil
}

func (r *FirestoreMenuRepository) Update(ctx context.Context, id int, fn func(domain.MenuItem) domain.MenuItem) (domain.MenuItem, error) {
	var out domain.MenuItem
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(r.doc(id))
		if fb.IsNotFound(err) {
			return notFound()
		}
		if err != nil {
			return err
		}
		var cur domain.MenuItem
		if err := snap.DataTo(&cur); err != nil {
			return err
		}
		out = fn(cur)
		out.ID = id
		return tx.Set(r.doc(id), out)
	})
	return out, err
}

func (r *FirestoreMenuRepository) Delete(ctx context.Context, id int) error {
	ref := r.doc(id)
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if fb.IsNotFound(err) {
				return notFound()
			}
			return err
		}
		return tx.Delete(ref)
	})
}

func (r *FirestoreMenuRepository) Seed(ctx context.Context, items []domain.MenuItem) error {
	for _, m := range items {
		if _, err := r.doc(m.ID).Create(ctx, m); err != nil && !fb.IsAlreadyExists(err) {
			return fmt.Errorf("failed to seed menu item %d: %w", m.ID, err)
		}
	}
	return nil
}
