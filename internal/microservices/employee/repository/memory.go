package repository

import (
	"context"
	"sort"
	"sync"

	"cafesync/internal/common/memstore"
	"cafesync/internal/domain"
)

type MemoryEmployeeRepository struct {
	mu      sync.Mutex // upsert is read-then-write
	records *memstore.Store[domain.EmployeeRecord]
}

func NewMemory() *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{records: memstore.New[domain.EmployeeRecord]()}
}

func (r *MemoryEmployeeRepository) Get(_ context.Context, email string) (domain.EmployeeRecord, error) {
	rec, ok := r.records.Get(email)
	if !ok {
		return domain.EmployeeRecord{}, notFound()
	}
	return rec, nil
}

func (r *MemoryEmployeeRepository) Upsert(_ context.Context, rec domain.EmployeeRecord) (domain.EmployeeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.records.Get(rec.Email); ok {
		rec.InvitedAt = cur.InvitedAt
	}
	r.records.Set(rec.Email, rec)
	return rec, nil
}

func (r *MemoryEmployeeRepository) Delete(_ context.Context, email string) error {
	if !r.records.Delete(email) {
		return notFound()
	}
	return nil
}

func (r *MemoryEmployeeRepository) SetStatus(_ context.Context, email string, status domain.EmployeeStatus) (domain.EmployeeRecord, error) {
	rec, found, _ := r.records.Update(email, func(rec domain.EmployeeRecord) (domain.EmployeeRecord, error) {
		rec.Status = status
		return rec, nil
	})
	if !found {
		return domain.EmployeeRecord{}, notFound()
	}
	return rec, nil
}

func (r *MemoryEmployeeRepository) List(_ context.Context) ([]domain.EmployeeRecord, error) {
	out := r.records.List(nil)
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *MemoryEmployeeRepository) Seed(_ context.Context, recs []domain.EmployeeRecord) error {
	for _, rec := range recs {
		r.records.Insert(rec.Email, rec)
	}
	return nil
}
