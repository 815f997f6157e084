package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cafesync/internal/common/httpx"
	"cafesync/internal/common/logger"
	"cafesync/internal/domain"
	"cafesync/internal/microservices/employee/auth"
)

// Router mounts every route. Health is public, everything else needs a
// whitelisted employee; resource groups add their permission on top.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpx.AccessLog(logger.New("http")))
	r.Use(httpx.CORS(a.cfg.ClientURL))

	r.Get("/api/health", a.health)
	if a.devMode {
		r.Post("/api/auth/dev-token", a.employees.AuthHandler.DevToken)
	}

	r.Group(func(r chi.Router) {
		r.Use(a.gate.Authenticate)
		r.Get("/ws", a.socket.Serve)

		r.Route("/api", func(r chi.Router) {
			r.Get("/auth/me", a.employees.AuthHandler.Me)
			r.Route("/weather", a.weather.Routes)
			r.Route("/notifications", a.notifications.Routes)

			r.With(auth.RequirePermission(domain.PermOrders)).Route("/orders", a.orders.Routes)
			r.With(auth.RequirePermission(domain.PermInventory)).Route("/inventory", a.inventory.Routes)
			r.With(auth.RequirePermission(domain.PermLoyalty)).Route("/loyalty", a.loyalty.Routes)
			r.With(auth.RequirePermission(domain.PermAll)).Route("/analytics", a.analytics.Routes)
			r.With(auth.RequirePermission(domain.PermAll)).Route("/employees", a.employees.EmployeeRoutes)

			r.Route("/menu", func(r chi.Router) {
				a.menu.ReadRoutes(r)
				r.Group(func(r chi.Router) {
					r.Use(auth.RequirePermission(domain.PermAll))
					a.menu.WriteRoutes(r)
				})
			})
		})
	})
	return r
}

func (a *App) health(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC(),
		"service":   "cafesync",
		"storage":   a.storage,
	})
}
