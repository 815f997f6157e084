package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cafesync/internal/common/httpx"
	"cafesync/internal/microservices/employee/auth"
	dto "cafesync/internal/microservices/order/domain/dto"
	"cafesync/internal/microservices/order/service"
)

type OrderHandler struct {
	service service.OrderServiceInterface
}

func NewOrderHandler(s service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: s}
}

func (oh *OrderHandler) AddOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if req.StaffID == "" {
		if e, ok := auth.EmployeeFrom(r.Context()); ok {
			req.StaffID = e.Email
		}
	}
	order, err := oh.service.CreateOrder(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Created(w, order, "Order created successfully")
}

func (oh *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orders, err := oh.service.ListOrders(r.Context(), q.Get("status"), q.Get("station"), httpx.AtoiDefault(q.Get("limit"), 50))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.List(w, orders)
}

func (oh *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := oh.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, order)
}

func (oh *OrderHandler) StationOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := oh.service.StationOrders(r.Context(), chi.URLParam(r, "station"), r.URL.Query().Get("status"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.List(w, orders)
}

func (oh *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStatusRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if req.UpdatedBy == "" {
		if e, ok := auth.EmployeeFrom(r.Context()); ok {
			req.UpdatedBy = e.Email
		}
	}
	order, err := oh.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, order, "Order status updated to "+string(order.Status))
}

func (oh *OrderHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	var req dto.AddItemsRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	order, err := oh.service.AddItems(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, order, "Items added to order")
}

func (oh *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	hist, err := oh.service.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.List(w, hist)
}
