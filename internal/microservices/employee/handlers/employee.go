package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cafesync/internal/common/httpx"
	"cafesync/internal/microservices/employee/auth"
	dto "cafesync/internal/microservices/employee/domain/dto"
	"cafesync/internal/microservices/employee/service"
)

type EmployeeHandler struct {
	service service.EmployeeServiceInterface
}

func NewEmployeeHandler(s service.EmployeeServiceInterface) *EmployeeHandler {
	return &EmployeeHandler{service: s}
}

func (eh *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := eh.service.ListEmployees(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.List(w, recs)
}

func (eh *EmployeeHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req dto.AddEmployeeRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if req.InvitedBy == "" {
		if e, ok := auth.EmployeeFrom(r.Context()); ok {
			req.InvitedBy = e.Email
		}
	}
	rec, err := eh.service.AddEmployee(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Created(w, rec, "Employee added successfully")
}

func (eh *EmployeeHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStatusRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	rec, err := eh.service.UpdateEmployeeStatus(r.Context(), chi.URLParam(r, "email"), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, rec, "Employee status updated")
}

func (eh *EmployeeHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := eh.service.RemoveEmployee(r.Context(), chi.URLParam(r, "email")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, nil, "Employee removed successfully")
}
