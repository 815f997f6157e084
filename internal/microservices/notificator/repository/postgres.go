package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cafesync/internal/connections/database"
	"cafesync/internal/domain"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *NotificationRepository { return &NotificationRepository{db: db} }

const notificationColumns = `id, type, title, message, order_id, created_at, read`

type scanner interface {
	Scan(dest ...any) error
}

func scanNotification(s scanner) (domain.Notification, error) {
	var (
		n   domain.Notification
		typ string
	)
	if err := s.Scan(&n.ID, &typ, &n.Title, &n.Message, &n.OrderID, &n.Timestamp, &n.Read); err != nil {
		return domain.Notification{}, err
	}
	n.Type = domain.NotificationType(typ)
	return n, nil
}

func (r *NotificationRepository) Add(ctx context.Context, n domain.Notification) error {
	return database.InTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO notifications (`+notificationColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			n.ID, string(n.Type), n.Title, n.Message, n.OrderID, n.Timestamp, n.Read); err != nil {
			return fmt.Errorf("failed to insert notification: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM notifications WHERE id IN (
				SELECT id FROM notifications ORDER BY created_at DESC OFFSET $1
			)`, domain.MaxNotifications); err != nil {
			return fmt.Errorf("failed to trim notifications: %w", err)
		}
		return nil
	})
}

func (r *NotificationRepository) List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	q := `SELECT ` + notificationColumns + ` FROM notifications`
	if unreadOnly {
		q += ` WHERE NOT read`
	}
	rows, err := r.db.QueryContext(ctx, q+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) (domain.Notification, error) {
	n, err := scanNotification(r.db.QueryRowContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 RETURNING `+notificationColumns, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Notification{}, notFound()
	}
	if err != nil {
		return domain.Notification{}, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE NOT read`)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *NotificationRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notifications`); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}
