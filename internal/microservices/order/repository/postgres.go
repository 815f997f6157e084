package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cafesync/internal/connections/database"
	"cafesync/internal/domain"
)

func NewPostgres(db *sql.DB) *Repository {
	return &Repository{
		OrderRepo:     &OrderRepository{db: db},
		CompletedRepo: &CompletedOrderRepository{db: db},
	}
}

type OrderRepository struct {
	db *sql.DB
}

func (or *OrderRepository) NextOrderNumber(ctx context.Context) (int64, error) {
	var n int64
	err := or.db.QueryRowContext(ctx, `
		INSERT INTO counters (name, value) VALUES ('orders', 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value
	`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to bump order counter: %w", err)
	}
	return n, nil
}

func (or *OrderRepository) AddOrder(ctx context.Context, order domain.Order, first domain.OrderStatusChange) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}
	return database.InTx(ctx, or.db, func(tx *sql.Tx) error {
		// 1. Insert order
		_, err := tx.ExecContext(ctx, `
			INSERT INTO orders
			    (id, order_number, customer, items, station, status, total_amount, estimated_prep_time,
			     priority, payment_method, staff_id, special_instructions, created_at, updated_at, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`,
			order.ID, order.OrderNumber, order.Customer, string(items), order.Station, string(order.Status),
			decimal.NewFromFloat(order.TotalAmount), order.EstimatedPrepTime, string(order.Priority),
			order.PaymentMethod, order.StaffID, order.SpecialInstructions,
			order.CreatedAt, order.UpdatedAt, order.CompletedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
		// 2. Insert into order_status_log
		if err := insertHistory(ctx, tx, first); err != nil {
			return err
		}
		return nil
	})
}

const orderColumns = `id, order_number, customer, items, station, status, total_amount, estimated_prep_time,
	priority, payment_method, staff_id, special_instructions, created_at, updated_at, completed_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (domain.Order, error) {
	var (
		o        domain.Order
		items    []byte
		status   string
		priority string
		total    decimal.Decimal
		done     sql.NullTime
	)
	if err := s.Scan(&o.ID, &o.OrderNumber, &o.Customer, &items, &o.Station, &status, &total,
		&o.EstimatedPrepTime, &priority, &o.PaymentMethod, &o.StaffID, &o.SpecialInstructions,
		&o.CreatedAt, &o.UpdatedAt, &done); err != nil {
		return domain.Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return domain.Order{}, fmt.Errorf("decode items of %s: %w", o.ID, err)
	}
	o.Status = domain.OrderStatus(status)
	o.Priority = domain.Priority(priority)
	o.TotalAmount = total.InexactFloat64()
	if done.Valid {
		t := done.Time
		o.CompletedAt = &t
	}
	return o, nil
}

func (or *OrderRepository) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	o, err := scanOrder(or.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.NotFound("Order not found")
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (or *OrderRepository) ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	var (
		where []string
		args  []any
	)
	if f.Station != "" {
		args = append(args, f.Station)
		where = append(where, fmt.Sprintf("station = $%d", len(args)))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	q := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := or.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (or *OrderRepository) MutateOrder(ctx context.Context, id string, fn func(*domain.Order) error) (domain.Order, error) {
	var out domain.Order
	err := database.InTx(ctx, or.db, func(tx *sql.Tx) error {
		o, err := scanOrder(tx.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("Order not found")
		}
		if err != nil {
			return fmt.Errorf("failed to lock order: %w", err)
		}
		if err := fn(&o); err != nil {
			return err
		}
		items, err := json.Marshal(o.Items)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE orders SET customer = $2, items = $3, station = $4, status = $5, total_amount = $6,
			    estimated_prep_time = $7, priority = $8, payment_method = $9, staff_id = $10,
			    special_instructions = $11, updated_at = $12, completed_at = $13
			WHERE id = $1
		`, o.ID, o.Customer, string(items), o.Station, string(o.Status), decimal.NewFromFloat(o.TotalAmount),
			o.EstimatedPrepTime, string(o.Priority), o.PaymentMethod, o.StaffID, o.SpecialInstructions,
			o.UpdatedAt, o.CompletedAt)
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		out = o
		return nil
	})
	return out, err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertHistory(ctx context.Context, db execer, c domain.OrderStatusChange) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO order_status_log (id, order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.OrderID, string(c.Status), c.UpdatedBy, c.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert order status log: %w", err)
	}
	return nil
}

func (or *OrderRepository) AppendHistory(ctx context.Context, change domain.OrderStatusChange) error {
	return insertHistory(ctx, or.db, change)
}

func (or *OrderRepository) History(ctx context.Context, orderID string) ([]domain.OrderStatusChange, error) {
	rows, err := or.db.QueryContext(ctx, `
		SELECT id, order_id, status, changed_by, changed_at
		FROM order_status_log WHERE order_id = $1 ORDER BY changed_at ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to read order history: %w", err)
	}
	defer rows.Close()

	var out []domain.OrderStatusChange
	for rows.Next() {
		var c domain.OrderStatusChange
		var status string
		if err := rows.Scan(&c.ID, &c.OrderID, &status, &c.UpdatedBy, &c.Timestamp); err != nil {
			return nil, err
		}
		c.Status = domain.OrderStatus(status)
		out = append(out, c)
	}
	return out, rows.Err()
}

type CompletedOrderRepository struct {
	db *sql.DB
}

func (cr *CompletedOrderRepository) SaveSnapshot(ctx context.Context, c domain.CompletedOrder) (bool, error) {
	body, err := json.Marshal(c)
	if err != nil {
		return false, err
	}
	res, err := cr.db.ExecContext(ctx, `
		INSERT INTO completed_orders (order_id, snapshot, completed_at) VALUES ($1, $2, $3)
		ON CONFLICT (order_id) DO NOTHING
	`, c.ID, string(body), completedAt(c))
	if err != nil {
		return false, fmt.Errorf("failed to save snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (cr *CompletedOrderRepository) Completed(ctx context.Context, ids []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := cr.db.QueryContext(ctx, `SELECT order_id FROM completed_orders WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check snapshots: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

func (cr *CompletedOrderRepository) ListCompleted(ctx context.Context, from, to time.Time) ([]domain.CompletedOrder, error) {
	rows, err := cr.db.QueryContext(ctx, `
		SELECT snapshot FROM completed_orders
		WHERE completed_at >= $1 AND completed_at < $2
		ORDER BY completed_at ASC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []domain.CompletedOrder
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var c domain.CompletedOrder
		if err := json.Unmarshal(body, &c); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
