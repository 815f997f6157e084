package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafesync/internal/domain"
	dto "cafesync/internal/microservices/employee/domain/dto"
	"cafesync/internal/microservices/employee/repository"
)

func newSeeded(t *testing.T) *EmployeeService {
	t.Helper()
	svc := NewEmployeeService(repository.NewMemory())
	require.NoError(t, svc.Seed(context.Background()))
	return svc
}

func TestWhitelist_CaseInsensitive(t *testing.T) {
	svc := newSeeded(t)
	ctx := context.Background()

	ok, err := svc.IsEmployeeWhitelisted(ctx, "  Manager@CafeSync.com ")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsEmployeeWhitelisted(ctx, "stranger@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddEmployee_RoleDefaults(t *testing.T) {
	svc := newSeeded(t)
	ctx := context.Background()

	rec, err := svc.AddEmployee(ctx, dto.AddEmployeeRequest{Email: "Ana@Cafe.io", Name: "Ana", Role: "cashier", InvitedBy: "manager@cafesync.com"})
	require.NoError(t, err)
	assert.Equal(t, "ana@cafe.io", rec.Email)
	assert.Equal(t, domain.StationFrontCounter, rec.Station)
	assert.Equal(t, []string{domain.PermOrders, domain.PermLoyalty}, rec.Permissions)
	assert.Equal(t, domain.EmployeeActive, rec.Status)

	_, err = svc.AddEmployee(ctx, dto.AddEmployeeRequest{Email: "x@cafe.io", Name: "X", Role: "owner"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAddEmployee_ReAddKeepsInvitedAt(t *testing.T) {
	svc := newSeeded(t)
	ctx := context.Background()
	first := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	_, err := svc.AddEmployee(ctx, dto.AddEmployeeRequest{Email: "ben@cafe.io", Name: "Ben", Role: "barista"})
	require.NoError(t, err)
	_, err = svc.UpdateEmployeeStatus(ctx, "ben@cafe.io", dto.UpdateStatusRequest{Status: "suspended"})
	require.NoError(t, err)
	ok, _ := svc.IsEmployeeWhitelisted(ctx, "ben@cafe.io")
	assert.False(t, ok)

	svc.now = func() time.Time { return first.Add(48 * time.Hour) }
	rec, err := svc.AddEmployee(ctx, dto.AddEmployeeRequest{Email: "BEN@cafe.io", Name: "Ben K", Role: "kitchen"})
	require.NoError(t, err)
	assert.Equal(t, first, rec.InvitedAt)
	assert.Equal(t, domain.StationKitchen, rec.Station)
	assert.Equal(t, domain.EmployeeActive, rec.Status)

	all, err := svc.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestRemoveAndStatus(t *testing.T) {
	svc := newSeeded(t)
	ctx := context.Background()

	_, err := svc.UpdateEmployeeStatus(ctx, "barista@cafesync.com", dto.UpdateStatusRequest{Status: "fired"})
	assert.EqualError(t, err, "Invalid status")

	require.NoError(t, svc.RemoveEmployee(ctx, "Barista@cafesync.com"))
	assert.ErrorIs(t, svc.RemoveEmployee(ctx, "barista@cafesync.com"), domain.ErrNotFound)
	_, err = svc.UpdateEmployeeStatus(ctx, "barista@cafesync.com", dto.UpdateStatusRequest{Status: "active"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
