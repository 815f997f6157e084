package repository

import (
	"context"

	"cafesync/internal/domain"
)

// Emails passed in are already normalized.
type EmployeeRepositoryInterface interface {
	Get(ctx context.Context, email string) (domain.EmployeeRecord, error)
	// Upsert stores rec. An existing record keeps its invitedAt.
	Upsert(ctx context.Context, rec domain.EmployeeRecord) (domain.EmployeeRecord, error)
	Delete(ctx context.Context, email string) error
	SetStatus(ctx context.Context, email string, status domain.EmployeeStatus) (domain.EmployeeRecord, error)
	List(ctx context.Context) ([]domain.EmployeeRecord, error)
	Seed(ctx context.Context, recs []domain.EmployeeRecord) error
}

func notFound() error { return domain.NotFound("Employee not found") }
