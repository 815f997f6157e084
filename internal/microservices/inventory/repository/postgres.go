package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cafesync/internal/connections/database"
	"cafesync/internal/domain"
)

type InventoryRepository struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *InventoryRepository { return &InventoryRepository{db: db} }

const itemColumns = `id, name, category, current_stock, min_stock, max_stock, unit, cost_per_unit,
	supplier, location, last_restocked, last_updated, expiry_date`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (domain.InventoryItem, error) {
	var (
		it     domain.InventoryItem
		expiry sql.NullTime
	)
	err := s.Scan(&it.ID, &it.Name, &it.Category, &it.CurrentStock, &it.MinStock, &it.MaxStock, &it.Unit,
		&it.CostPerUnit, &it.Supplier, &it.Location, &it.LastRestocked, &it.LastUpdated, &expiry)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	if expiry.Valid {
		t := expiry.Time
		it.ExpiryDate = &t
	}
	return it, nil
}

func (r *InventoryRepository) List(ctx context.Context, f domain.InventoryFilter) ([]domain.InventoryItem, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Location != "" {
		args = append(args, f.Location)
		where = append(where, fmt.Sprintf("location = $%d", len(args)))
	}
	if f.LowStock {
		where = append(where, "current_stock <= min_stock")
	}
	q := `SELECT ` + itemColumns + ` FROM inventory_items`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()
	var out []domain.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *InventoryRepository) Get(ctx context.Context, id string) (domain.InventoryItem, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.InventoryItem{}, domain.NotFound("Inventory item not found")
	}
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return it, nil
}

func (r *InventoryRepository) insert(ctx context.Context, it domain.InventoryItem, onConflict string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory_items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`+onConflict,
		it.ID, it.Name, it.Category, it.CurrentStock, it.MinStock, it.MaxStock, it.Unit, it.CostPerUnit,
		it.Supplier, it.Location, it.LastRestocked, it.LastUpdated, it.ExpiryDate)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *InventoryRepository) Create(ctx context.Context, it domain.InventoryItem) error {
	n, err := r.insert(ctx, it, " ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("failed to insert inventory item: %w", err)
	}
	if n == 0 {
		return domain.Conflict("Inventory item already exists")
	}
	return nil
}

func (r *InventoryRepository) Seed(ctx context.Context, items []domain.InventoryItem) error {
	for _, it := range items {
		if _, err := r.insert(ctx, it, " ON CONFLICT (id) DO NOTHING"); err != nil {
			return fmt.Errorf("failed to seed %s: %w", it.ID, err)
		}
	}
	return nil
}

func (r *InventoryRepository) Adjust(ctx context.Context, adj domain.StockAdjustment, entryID string, at time.Time) (domain.InventoryItem, domain.InventoryHistoryEntry, error) {
	var (
		item  domain.InventoryItem
		entry domain.InventoryHistoryEntry
	)
	err := database.InTx(ctx, r.db, func(tx *sql.Tx) error {
		cur, err := scanItem(tx.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, adj.ItemID))
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("Inventory item not found")
		}
		if err != nil {
			return fmt.Errorf("failed to lock inventory item: %w", err)
		}
		item, entry, err = applyAdjustment(cur, adj, entryID, at)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE inventory_items SET current_stock = $2, last_updated = $3, last_restocked = $4 WHERE id = $1
		`, item.ID, item.CurrentStock, item.LastUpdated, item.LastRestocked); err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO inventory_history (id, item_id, item_name, operation, quantity, old_stock, new_stock, reason, updated_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, entry.ID, entry.ItemID, entry.ItemName, string(entry.Operation), entry.Quantity, entry.OldStock,
			entry.NewStock, entry.Reason, entry.UpdatedBy, entry.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to insert inventory history: %w", err)
		}
		return nil
	})
	return item, entry, err
}

func (r *InventoryRepository) History(ctx context.Context, itemID string, limit int) ([]domain.InventoryHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, item_id, item_name, operation, quantity, old_stock, new_stock, reason, updated_by, created_at
		FROM inventory_history WHERE item_id = $1 ORDER BY created_at DESC LIMIT $2
	`, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory history: %w", err)
	}
	defer rows.Close()
	var out []domain.InventoryHistoryEntry
	for rows.Next() {
		var e domain.InventoryHistoryEntry
		var op string
		if err := rows.Scan(&e.ID, &e.ItemID, &e.ItemName, &op, &e.Quantity, &e.OldStock, &e.NewStock,
			&e.Reason, &e.UpdatedBy, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Operation = domain.StockOperation(op)
		out = append(out, e)
	}
	return out, rows.Err()
}
