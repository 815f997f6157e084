package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cafesync/internal/common/httpx"
	"cafesync/internal/domain"
	dto "cafesync/internal/microservices/loyalty/domain/dto"
	"cafesync/internal/microservices/loyalty/service"
)

type LoyaltyHandler struct {
	service service.LoyaltyServiceInterface
}

func NewLoyaltyHandler(s service.LoyaltyServiceInterface) *LoyaltyHandler {
	return &LoyaltyHandler{service: s}
}

type pointsResponse struct {
	httpx.Envelope
	NewRewards []domain.Reward `json:"newRewards"`
}

func (lh *LoyaltyHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	customers, err := lh.service.ListCustomers(r.Context(), q.Get("tier"), q.Get("sortBy"), httpx.AtoiDefault(q.Get("limit"), 50))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.List(w, customers)
}

func (lh *LoyaltyHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := lh.service.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, c)
}

func (lh *LoyaltyHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	c, err := lh.service.CreateCustomer(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Created(w, c, "Customer created successfully")
}

func (lh *LoyaltyHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePreferencesRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	c, err := lh.service.UpdatePreferences(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, c, "Customer preferences updated successfully")
}

func (lh *LoyaltyHandler) AddPoints(w http.ResponseWriter, r *http.Request) {
	var req dto.AddPointsRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	c, rewards, err := lh.service.AddPoints(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pointsResponse{
		Envelope:   httpx.Envelope{Success: true, Data: c, Message: "Points added successfully"},
		NewRewards: rewards,
	})
}

func (lh *LoyaltyHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req dto.RedeemRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	c, err := lh.service.Redeem(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Message(w, c, "Reward redeemed successfully")
}

func (lh *LoyaltyHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	a, err := lh.service.Analytics(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, a)
}
