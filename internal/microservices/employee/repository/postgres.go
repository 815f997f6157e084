package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cafesync/internal/domain"
)

type EmployeeRepository struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *EmployeeRepository { return &EmployeeRepository{db: db} }

const employeeColumns = `email, name, role, station, permissions, invited_by, invited_at, status`

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(s scanner) (domain.EmployeeRecord, error) {
	var (
		rec          domain.EmployeeRecord
		role, status string
		perms        []byte
	)
	if err := s.Scan(&rec.Email, &rec.Name, &role, &rec.Station, &perms, &rec.InvitedBy, &rec.InvitedAt, &status); err != nil {
		return domain.EmployeeRecord{}, err
	}
	rec.Role, rec.Status = domain.Role(role), domain.EmployeeStatus(status)
	return rec, json.Unmarshal(perms, &rec.Permissions)
}

func (r *EmployeeRepository) Get(ctx context.Context, email string) (domain.EmployeeRecord, error) {
	rec, err := scanEmployee(r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.EmployeeRecord{}, notFound()
	}
	if err != nil {
		return domain.EmployeeRecord{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return rec, nil
}

func (r *EmployeeRepository) write(ctx context.Context, rec domain.EmployeeRecord, conflict string) (*sql.Row, error) {
	perms, err := json.Marshal(rec.Permissions)
	if err != nil {
		return nil, err
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`+conflict+` RETURNING `+employeeColumns,
		rec.Email, rec.Name, string(rec.Role), rec.Station, string(perms), rec.InvitedBy, rec.InvitedAt, string(rec.Status)), nil
}

func (r *EmployeeRepository) Upsert(ctx context.Context, rec domain.EmployeeRecord) (domain.EmployeeRecord, error) {
	row, err := r.write(ctx, rec, `ON CONFLICT (email) DO UPDATE SET
		name = EXCLUDED.name, role = EXCLUDED.role, station = EXCLUDED.station,
		permissions = EXCLUDED.permissions, invited_by = EXCLUDED.invited_by, status = EXCLUDED.status`)
	if err != nil {
		return domain.EmployeeRecord{}, err
	}
	out, err := scanEmployee(row)
	if err != nil {
		return domain.EmployeeRecord{}, fmt.Errorf("failed to upsert employee: %w", err)
	}
	return out, nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound()
	}
	return nil
}

func (r *EmployeeRepository) SetStatus(ctx context.Context, email string, status domain.EmployeeStatus) (domain.EmployeeRecord, error) {
	rec, err := scanEmployee(r.db.QueryRowContext(ctx,
		`UPDATE employees SET status = $2 WHERE email = $1 RETURNING `+employeeColumns, email, string(status)))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.EmployeeRecord{}, notFound()
	}
	if err != nil {
		return domain.EmployeeRecord{}, fmt.Errorf("failed to update employee status: %w", err)
	}
	return rec, nil
}

func (r *EmployeeRepository) List(ctx context.Context) ([]domain.EmployeeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()
	var out []domain.EmployeeRecord
	for rows.Next() {
		rec, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *EmployeeRepository) Seed(ctx context.Context, recs []domain.EmployeeRecord) error {
	for _, rec := range recs {
		row, err := r.write(ctx, rec, `ON CONFLICT (email) DO NOTHING`)
		if err != nil {
			return err
		}
		if _, err := scanEmployee(row); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to seed employee %s: %w", rec.Email, err)
		}
	}
	return nil
}
