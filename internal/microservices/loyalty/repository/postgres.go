package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"cafesync/internal/connections/database"
	"cafesync/internal/domain"
)

const uniqueViolation = "23505"

type LoyaltyRepository struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *LoyaltyRepository { return &LoyaltyRepository{db: db} }

const customerColumns = `id, name, email, phone, loyalty_points, tier, total_spent, visit_count,
	join_date, last_visit, preferences, rewards`

type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(s scanner) (domain.LoyaltyCustomer, error) {
	var (
		c              domain.LoyaltyCustomer
		tier           string
		spent          decimal.Decimal
		prefs, rewards []byte
	)
	if err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.LoyaltyPoints, &tier, &spent, &c.VisitCount,
		&c.JoinDate, &c.LastVisit, &prefs, &rewards); err != nil {
		return domain.LoyaltyCustomer{}, err
	}
	c.Tier = domain.Tier(tier)
	c.TotalSpent = spent.InexactFloat64()
	if err := json.Unmarshal(prefs, &c.Preferences); err != nil {
		return domain.LoyaltyCustomer{}, err
	}
	return c, json.Unmarshal(rewards, &c.Rewards)
}

func customerArgs(c domain.LoyaltyCustomer) ([]any, error) {
	prefs, err := json.Marshal(c.Preferences)
	if err != nil {
		return nil, err
	}
	rewards := c.Rewards
	if rewards == nil {
		rewards = []domain.Reward{}
	}
	rw, err := json.Marshal(rewards)
	if err != nil {
		return nil, err
	}
	return []any{c.ID, c.Name, c.Email, c.Phone, c.LoyaltyPoints, string(c.Tier),
		decimal.NewFromFloat(c.TotalSpent).Round(2), c.VisitCount, c.JoinDate, c.LastVisit,
		string(prefs), string(rw)}, nil
}

func (r *LoyaltyRepository) List(ctx context.Context, tier domain.Tier) ([]domain.LoyaltyCustomer, error) {
	q := `SELECT ` + customerColumns + ` FROM loyalty_customers`
	var args []any
	if tier != "" {
		q += ` WHERE tier = $1`
		args = append(args, string(tier))
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()
	var out []domain.LoyaltyCustomer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *LoyaltyRepository) Get(ctx context.Context, id string) (domain.LoyaltyCustomer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM loyalty_customers WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LoyaltyCustomer{}, notFound()
	}
	if err != nil {
		return domain.LoyaltyCustomer{}, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

const insertCustomer = `INSERT INTO loyalty_customers (` + customerColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

func (r *LoyaltyRepository) Create(ctx context.Context, c domain.LoyaltyCustomer) error {
	args, err := customerArgs(c)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, insertCustomer, args...)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return duplicateEmail()
	}
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

func insertTx(ctx context.Context, tx *sql.Tx, t domain.LoyaltyTransaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO loyalty_transactions (id, customer_id, type, points, order_id, reward_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`, t.ID, t.CustomerID, string(t.Type), t.Points, t.OrderID, t.RewardID, t.Description, t.Timestamp)
	return err
}

func (r *LoyaltyRepository) Mutate(ctx context.Context, id string, fn MutateFunc) (domain.LoyaltyCustomer, error) {
	var out domain.LoyaltyCustomer
	err := database.InTx(ctx, r.db, func(tx *sql.Tx) error {
		c, err := scanCustomer(tx.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM loyalty_customers WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return notFound()
		}
		if err != nil {
			return err
		}
		t, err := fn(&c)
		if err != nil {
			return err
		}
		args, err := customerArgs(c)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE loyalty_customers SET name = $2, email = $3, phone = $4, loyalty_points = $5, tier = $6,
				total_spent = $7, visit_count = $8, join_date = $9, last_visit = $10, preferences = $11, rewards = $12
			WHERE id = $1
		`, args...); err != nil {
			return fmt.Errorf("failed to update customer: %w", err)
		}
		if t != nil {
			if err := insertTx(ctx, tx, *t); err != nil {
				return fmt.Errorf("failed to record loyalty transaction: %w", err)
			}
		}
		out = c
		return nil
	})
	return out, err
}

func (r *LoyaltyRepository) Transactions(ctx context.Context, customerID string, limit int) ([]domain.LoyaltyTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, type, points, order_id, reward_id, description, created_at
		FROM loyalty_transactions WHERE customer_id = $1 ORDER BY created_at DESC LIMIT $2
	`, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list loyalty transactions: %w", err)
	}
	defer rows.Close()
	var out []domain.LoyaltyTransaction
	for rows.Next() {
		var (
			t  domain.LoyaltyTransaction
			tp string
		)
		if err := rows.Scan(&t.ID, &t.CustomerID, &tp, &t.Points, &t.OrderID, &t.RewardID, &t.Description, &t.Timestamp); err != nil {
			return nil, err
		}
		t.Type = domain.TransactionType(tp)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *LoyaltyRepository) PointTotals(ctx context.Context) (int, int, error) {
	var issued, redeemed int
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(points) FILTER (WHERE type = 'earned'), 0),
			COALESCE(SUM(ABS(points)) FILTER (WHERE type = 'redemption'), 0)
		FROM loyalty_transactions
	`).Scan(&issued, &redeemed)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sum loyalty points: %w", err)
	}
	return issued, redeemed, nil
}

func (r *LoyaltyRepository) Seed(ctx context.Context, customers []domain.LoyaltyCustomer, txs []domain.LoyaltyTransaction) error {
	return database.InTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, c := range customers {
			args, err := customerArgs(c)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, insertCustomer+` ON CONFLICT DO NOTHING`, args...); err != nil {
				return fmt.Errorf("failed to seed customer %s: %w", c.ID, err)
			}
		}
		for _, t := range txs {
			if err := insertTx(ctx, tx, t); err != nil {
				return fmt.Errorf("failed to seed loyalty transaction %s: %w", t.ID, err)
			}
		}
		return nil
	})
}
