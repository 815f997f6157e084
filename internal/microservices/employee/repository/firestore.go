package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	fb "cafesync/internal/connections/firebase"
	"cafesync/internal/domain"
)

// Documents are keyed by normalized email.
const employeesCollection = "employees"

type FirestoreEmployeeRepository struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *FirestoreEmployeeRepository {
	return &FirestoreEmployeeRepository{client: client}
}

func (r *FirestoreEmployeeRepository) doc(email string) *firestore.DocumentRef {
	return r.client.Collection(employeesCollection).Doc(email)
}

func (r *FirestoreEmployeeRepository) Get(ctx context.Context, email string) (domain.EmployeeRecord, error) {
	snap, err := r.doc(email).Get(ctx)
	if fb.IsNotFound(err) {
		return domain.EmployeeRecord{}, notFound()
	}
	if err != nil {
		return domain.EmployeeRecord{}, fmt.Errorf("failed to get employee: %w", err)
	}
	var rec domain.EmployeeRecord
	return rec, snap.DataTo(&rec)
}

func (r *FirestoreEmployeeRepository) Upsert(ctx context.Context, rec domain.EmployeeRecord) (domain.EmployeeRecord, error) {
	ref := r.doc(rec.Email)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			var cur domain.EmployeeRecord
			if err := snap.DataTo(&cur); err != nil {
				return err
			}
			rec.InvitedAt = cur.InvitedAt
		case !fb.IsNotFound(err):
			return err
		}
		return tx.Set(ref, rec)
	})
	return rec, err
}

func (r *FirestoreEmployeeRepository) Delete(ctx context.Context, email string) error {
	ref := r.doc(email)
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

func (r *FirestoreEmployeeRepository) SetStatus(ctx context.Context, email string, status domain.EmployeeStatus) (domain.EmployeeRecord, error) {
	ref := r.doc(email)
	var rec domain.EmployeeRecord
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if fb.IsNotFound(err) {
			return notFound()
		}
		if err != nil {
			return err
		}
		if err := snap.DataTo(&rec); err != nil {
			return err
		}
		rec.Status = status
		return tx.Update(ref, []firestore.Update{{Path: "status", Value: string(status)}})
	})
	return rec, err
}

func (r *FirestoreEmployeeRepository) List(ctx context.Context) ([]domain.EmployeeRecord, error) {
	return fb.Collect[domain.EmployeeRecord](r.client.Collection(employeesCollection).OrderBy("email", firestore.Asc).Documents(ctx))
}

func (r *FirestoreEmployeeRepository) Seed(ctx context.Context, recs []domain.EmployeeRecord) error {
	for _, rec := range recs {
		if _, err := r.doc(rec.Email).Create(ctx, rec); err != nil && !fb.IsAlreadyExists(err) {
			return fmt.Errorf("failed to seed employee %s: %w", rec.Email, err)
		}
	}
	return nil
}
