package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"

	fb "cafesync/internal/connections/firebase"
	"cafesync/internal/domain"
)

const notificationsCollection = "notifications"

type FirestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *FirestoreNotificationRepository {
	return &FirestoreNotificationRepository{client: client}
}

func (r *FirestoreNotificationRepository) col() *firestore.CollectionRef {
	return r.client.Collection(notificationsCollection)
}

func (r *FirestoreNotificationRepository) Add(ctx context.Context, n domain.Notification) error {
	if _, err := r.col().Doc(n.ID).Set(ctx, n); err != nil {
		return fmt.Errorf("failed to add notification: %w", err)
	}
	stale, err := r.col().OrderBy("timestamp", firestore.Desc).Offset(domain.MaxNotifications).Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("failed to trim notifications: %w", err)
	}
	return r.deleteAll(ctx, stale)
}

func (r *FirestoreNotificationRepository) deleteAll(ctx context.Context, snaps []*firestore.DocumentSnapshot) error {
	_, err := r.bulk(ctx, snaps, func(bw *firestore.BulkWriter, ref *firestore.DocumentRef) (*firestore.BulkWriterJob, error) {
		return bw.Delete(ref)
	})
	return err
}

// bulk applies op to every snapshot and waits for the results. It returns
// how many writes succeeded alongside every write error.
func (r *FirestoreNotificationRepository) bulk(ctx context.Context, snaps []*firestore.DocumentSnapshot,
	op func(*firestore.BulkWriter, *firestore.DocumentRef) (*firestore.BulkWriterJob, error)) (int, error) {
	if len(snaps) == 0 {
		return 0, nil
	}
	bw := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(snaps))
	var errs []error
	for _, s := range snaps {
		job, err := op(bw, s.Ref)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Ref.ID, err))
			continue
		}
		jobs = append(jobs, job)
	}
	bw.End()

	done := 0
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			errs = append(errs, err)
			continue
		}
		done++
	}
	if len(errs) > 0 {
		return done, fmt.Errorf("bulk write failed for %d of %d notifications: %w", len(errs), len(snaps), errors.Join(errs...))
	}
	return done, nil
}

func (r *FirestoreNotificationRepository) List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	q := r.col().OrderBy("timestamp", firestore.Desc)
	if unreadOnly {
		q = r.col().Where("read", "==", false).OrderBy("timestamp", firestore.Desc)
	}
	return fb.Collect[domain.Notification](q.Documents(ctx))
}

func (r *FirestoreNotificationRepository) MarkRead(ctx context.Context, id string) (domain.Notification, error) {
	ref := r.col().Doc(id)
	var n domain.Notification
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if fb.IsNotFound(err) {
			return notFound()
		}
		if err != nil {
			return err
		}
		if err := snap.DataTo(&n); err != nil {
			return err
		}
		n.Read = true
		return tx.Update(ref, []firestore.Update{{Path: "read", Value: true}})
	})
	return n, err
}

func (r *FirestoreNotificationRepository) MarkAllRead(ctx context.Context) (int, error) {
	snaps, err := r.col().Where("read", "==", false).Documents(ctx).GetAll()
	if err != nil {
		return 0, fmt.Errorf("failed to list unread notifications: %w", err)
	}
	return r.bulk(ctx, snaps, func(bw *firestore.BulkWriter, ref *firestore.DocumentRef) (*firestore.BulkWriterJob, error) {
		return bw.Update(ref, []firestore.Update{{Path: "read", Value: true}})
	})
}

func (r *FirestoreNotificationRepository) Clear(ctx context.Context) error {
	snaps, err := r.col().Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("failed to list notifications: %w", err)
	}
	return r.deleteAll(ctx, snaps)
}
