package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cafesync/internal/common/httpx"
	"cafesync/internal/microservices/analytics/service"
)

type AnalyticsHandler struct {
	service service.AnalyticsServiceInterface
}

func NewAnalyticsHandler(s service.AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{service: s}
}

// periodReport adapts a period-scoped service call into a handler.
func periodReport[T any](fn func(ctx context.Context, period string) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r.Context(), r.URL.Query().Get("period"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.OK(w, out)
	}
}

func (ah *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := ah.service.Dashboard(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, d)
}

type Handler struct {
	AnalyticsHandler *AnalyticsHandler
}

func New(s *service.Service) *Handler {
	return &Handler{AnalyticsHandler: NewAnalyticsHandler(s.AnalyticsService)}
}

func (h *Handler) Routes(r chi.Router) {
	svc := h.AnalyticsHandler.service
	r.Get("/sales", periodReport(svc.Sales))
	r.Get("/staff", periodReport(svc.Staff))
	r.Get("/revenue", periodReport(svc.Revenue))
	r.Get("/customers", periodReport(svc.Customers))
	r.Get("/dashboard", h.AnalyticsHandler.Dashboard)
}
