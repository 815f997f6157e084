package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cafesync/internal/common/httpx"
	"cafesync/internal/domain"
	"cafesync/internal/microservices/employee/auth"
	dto "cafesync/internal/microservices/inventory/domain/dto"
	"cafesync/internal/microservices/inventory/service"
)

type InventoryHandler struct {
	service service.InventoryServiceInterface
}

func NewInventoryHandler(s service.InventoryServiceInterface) *InventoryHandler {
	return &InventoryHandler{service: s}
}

func (ih *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := ih.service.List(r.Context(), domain.InventoryFilter{
		Category: q.Get("category"),
		Location: q.Get("location"),
		LowStock: q.Get("lowStock") == "true",
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.List(w, items)
}

func (ih *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := ih.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, item)
}

func (ih *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateItemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	item, err := ih.service.Create(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Created(w, item, "Inventory item created successfully")
}

func (ih *InventoryHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStockRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if req.UpdatedBy == "" {
		if e, ok := auth.EmployeeFrom(r.Context()); ok {
			req.UpdatedBy = e.Email
		}
	}
	item, err := ih.service.UpdateStock(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, item, "Inventory updated successfully")
}

func (ih *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := ih.service.LowStock(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	msg := "All items are adequately stocked"
	if len(items) > 0 {
		msg = "Low stock items found"
	}
	n := len(items)
	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{Success: true, Data: items, Count: &n, Message: msg})
}

func (ih *InventoryHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := ih.service.History(r.Context(), chi.URLParam(r, "id"), httpx.AtoiDefault(r.URL.Query().Get("limit"), 50))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.List(w, entries)
}

func (ih *InventoryHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := ih.service.Overview(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, ov)
}
