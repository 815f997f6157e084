package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"cafesync/internal/connections/database"
	"cafesync/internal/domain"
)

type MenuRepository struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *MenuRepository { return &MenuRepository{db: db} }

const menuColumns = `id, name, price, category, description, image_url, is_available, preparation_time,
	ingredients, allergens, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMenuItem(s scanner) (domain.MenuItem, error) {
	var (
		m                      domain.MenuItem
		price                  decimal.Decimal
		ingredients, allergens []byte
	)
	if err := s.Scan(&m.ID, &m.Name, &price, &m.Category, &m.Description, &m.ImageURL, &m.IsAvailable,
		&m.PreparationTime, &ingredients, &allergens, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return domain.MenuItem{}, err
	}
	m.Price = price.InexactFloat64()
	if err := json.Unmarshal(ingredients, &m.Ingredients); err != nil {
		return domain.MenuItem{}, err
	}
	if err := json.Unmarshal(allergens, &m.Allergens); err != nil {
		return domain.MenuItem{}, err
	}
	return m, nil
}

func menuArgs(m domain.MenuItem) ([]any, error) {
	ingredients, err := json.Marshal(nonNil(m.Ingredients))
	if err != nil {
		return nil, err
	}
	allergens, err := json.Marshal(nonNil(m.Allergens))
	if err != nil {
		return nil, err
	}
	return []any{m.ID, m.Name, decimal.NewFromFloat(m.Price).Round(2), m.Category, m.Description, m.ImageURL,
		m.IsAvailable, m.PreparationTime, string(ingredients), string(allergens), m.CreatedAt, m.UpdatedAt}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *MenuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+menuColumns+` FROM menu_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}
	defer rows.Close()
	var out []domain.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MenuRepository) Get(ctx context.Context, id int) (domain.MenuItem, error) {
	m, err := scanMenuItem(r.db.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MenuItem{}, notFound()
	}
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("failed to get menu item: %w", err)
	}
	return m, nil
}

const insertMenu = `INSERT INTO menu_items (` + menuColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func (r *MenuRepository) Create(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	err := database.InTx(ctx, r.db, func(tx *sql.Tx) error {
		// блокируем таблицу, чтобы два запроса не получили один и тот же id
		if _, err := tx.ExecContext(ctx, `LOCK TABLE menu_items IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM menu_items`).Scan(&item.ID); err != nil {
			return err
		}
		args, err := menuArgs(item)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, insertMenu, args...)
		return err
	})
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("failed to insert menu item: %w", err)
	}
	return item, nil
}

func (r *MenuRepository) Update(ctx context.Context, id int, fn func(domain.MenuItem) domain.MenuItem) (domain.MenuItem, error) {
	var out domain.MenuItem
	err := database.InTx(ctx, r.db, func(tx *sql.Tx) error {
		cur, err := scanMenuItem(tx.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return notFound()
		}
		if err != nil {
			return err
		}
		out = fn(cur)
		out.ID = id
		args, err := menuArgs(out)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE menu_items SET name = $2, price = $3, category = $4, description = $5, image_url = $6,
				is_available = $7, preparation_time = $8, ingredients = $9, allergens = $10,
				created_at = $11, updated_at = $12
			WHERE id = $1
		`, args...)
		return err
	})
	return out, err
}

func (r *MenuRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound()
	}
	return nil
}

func (r *MenuRepository) Seed(ctx context.Context, items []domain.MenuItem) error {
	for _, m := range items {
		args, err := menuArgs(m)
		if err != nil {
			return err
		}
		if _, err := r.db.ExecContext(ctx, insertMenu+` ON CONFLICT (id) DO NOTHING`, args...); err != nil {
			return fmt.Errorf("failed to seed menu item %d: %w", m.ID, err)
		}
	}
	return nil
}
