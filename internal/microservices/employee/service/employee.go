package service

import (
	"context"
	"errors"
	"time"

	"cafesync/internal/common/logger"
	"cafesync/internal/common/validate"
	"cafesync/internal/domain"
	dto "cafesync/internal/microservices/employee/domain/dto"
	"cafesync/internal/microservices/employee/repository"
)

type EmployeeServiceInterface interface {
	IsEmployeeWhitelisted(ctx context.Context, email string) (bool, error)
	Lookup(ctx context.Context, email string) (domain.EmployeeRecord, error)
	AddEmployee(ctx context.Context, req dto.AddEmployeeRequest) (domain.EmployeeRecord, error)
	RemoveEmployee(ctx context.Context, email string) error
	UpdateEmployeeStatus(ctx context.Context, email string, req dto.UpdateStatusRequest) (domain.EmployeeRecord, error)
	ListEmployees(ctx context.Context) ([]domain.EmployeeRecord, error)
	Seed(ctx context.Context) error
}

type EmployeeService struct {
	db  repository.EmployeeRepositoryInterface
	lg  *logger.Logger
	now func() time.Time
}

func NewEmployeeService(db repository.EmployeeRepositoryInterface) *EmployeeService {
	return &EmployeeService{
		db:  db,
		lg:  logger.New("employee-service"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (es *EmployeeService) IsEmployeeWhitelisted(ctx context.Context, email string) (bool, error) {
	_, err := es.Lookup(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Lookup returns the active record for email. Missing and inactive
// employees both come back as not found.
func (es *EmployeeService) Lookup(ctx context.Context, email string) (domain.EmployeeRecord, error) {
	rec, err := es.db.Get(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return domain.EmployeeRecord{}, err
	}
	if rec.Status != domain.EmployeeActive {
		return domain.EmployeeRecord{}, domain.NotFound("Employee is not active")
	}
	return rec, nil
}

func (es *EmployeeService) AddEmployee(ctx context.Context, req dto.AddEmployeeRequest) (domain.EmployeeRecord, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	if err := validate.Struct(req, ""); err != nil {
		return domain.EmployeeRecord{}, err
	}
	role := domain.Role(req.Role)
	rec, err := es.db.Upsert(ctx, domain.EmployeeRecord{
		Email:       req.Email,
		Name:        req.Name,
		Role:        role,
		Station:     domain.StationFor(role),
		Permissions: domain.PermissionsFor(role),
		InvitedBy:   req.InvitedBy,
		InvitedAt:   es.now(),
		Status:      domain.EmployeeActive,
	})
	if err != nil {
		return domain.EmployeeRecord{}, err
	}
	es.lg.Info("employee_added", map[string]any{"email": rec.Email, "role": rec.Role, "invited_by": rec.InvitedBy})
	return rec, nil
}

func (es *EmployeeService) RemoveEmployee(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if err := es.db.Delete(ctx, email); err != nil {
		return err
	}
	es.lg.Info("employee_removed", map[string]any{"email": email})
	return nil
}

func (es *EmployeeService) UpdateEmployeeStatus(ctx context.Context, email string, req dto.UpdateStatusRequest) (domain.EmployeeRecord, error) {
	if err := validate.Struct(req, "Invalid status"); err != nil {
		return domain.EmployeeRecord{}, err
	}
	rec, err := es.db.SetStatus(ctx, domain.NormalizeEmail(email), domain.EmployeeStatus(req.Status))
	if err != nil {
		return domain.EmployeeRecord{}, err
	}
	es.lg.Info("employee_status_changed", map[string]any{"email": rec.Email, "status": rec.Status})
	return rec, nil
}

func (es *EmployeeService) ListEmployees(ctx context.Context) ([]domain.EmployeeRecord, error) {
	return es.db.List(ctx)
}

func (es *EmployeeService) Seed(ctx context.Context) error {
	now := es.now()
	rec := func(email, name string, role domain.Role) domain.EmployeeRecord {
		return domain.EmployeeRecord{
			Email: email, Name: name, Role: role,
			Station: domain.StationFor(role), Permissions: domain.PermissionsFor(role),
			InvitedBy: "system", InvitedAt: now, Status: domain.EmployeeActive,
		}
	}
	return es.db.Seed(ctx, []domain.EmployeeRecord{
		rec("manager@cafesync.com", "Demo Manager", domain.RoleManager),
		rec("barista@cafesync.com", "Demo Barista", domain.RoleBarista),
		rec("kitchen@cafesync.com", "Demo Kitchen", domain.RoleKitchen),
	})
}
