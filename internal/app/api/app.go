package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cafesync/internal/app/backend"
	"cafesync/internal/config"
	"cafesync/internal/domain"
	"cafesync/internal/microservices/analytics"
	analyticshandlers "cafesync/internal/microservices/analytics/handlers"
	"cafesync/internal/microservices/employee"
	"cafesync/internal/microservices/employee/auth"
	employeehandlers "cafesync/internal/microservices/employee/handlers"
	employeesvc "cafesync/internal/microservices/employee/service"
	"cafesync/internal/microservices/inventory"
	inventoryhandlers "cafesync/internal/microservices/inventory/handlers"
	inventorysvc "cafesync/internal/microservices/inventory/service"
	"cafesync/internal/microservices/loyalty"
	loyaltyhandlers "cafesync/internal/microservices/loyalty/handlers"
	loyaltysvc "cafesync/internal/microservices/loyalty/service"
	"cafesync/internal/microservices/menu"
	menuhandlers "cafesync/internal/microservices/menu/handlers"
	menusvc "cafesync/internal/microservices/menu/service"
	"cafesync/internal/microservices/notificator"
	notifyhandlers "cafesync/internal/microservices/notificator/handlers"
	notifysvc "cafesync/internal/microservices/notificator/service"
	"cafesync/internal/microservices/order"
	orderhandlers "cafesync/internal/microservices/order/handlers"
	"cafesync/internal/microservices/realtime"
	realtimehandlers "cafesync/internal/microservices/realtime/handlers"
	realtimesvc "cafesync/internal/microservices/realtime/service"
	"cafesync/internal/microservices/weather"
	weatherhandlers "cafesync/internal/microservices/weather/handlers"
)

const devTokenTTL = 12 * time.Hour

// App is the fully wired api process minus its listener.
type App struct {
	cfg     *config.Config
	storage string
	gate    *auth.Gate
	hub     *realtimesvc.Hub
	devMode bool

	orders        *orderhandlers.Handler
	inventory     *inventoryhandlers.Handler
	menu          *menuhandlers.Handler
	loyalty       *loyaltyhandlers.Handler
	analytics     *analyticshandlers.Handler
	weather       *weatherhandlers.Handler
	employees     *employeehandlers.Handler
	notifications *notifyhandlers.Handler
	socket        *realtimehandlers.SocketHandler

	inventorySvc *inventorysvc.InventoryService
	menuSvc      *menusvc.MenuService
	employeeSvc  *employeesvc.EmployeeService
	loyaltySvc   *loyaltysvc.LoyaltyService
}

// events is what REST mutations publish to: the station hub first, then
// the in-process notificator when it is enabled.
type events struct {
	hub   *realtimesvc.Hub
	notes *notifysvc.NotificatorService
}

func (e events) Publish(ctx context.Context, ev domain.Event) {
	e.hub.Publish(ctx, ev)
	if e.notes != nil {
		e.notes.Observe(ctx, ev)
	}
}

// Build wires every service over b. The caller owns b.
func Build(cfg *config.Config, b *backend.Backend) (*App, error) {
	a := &App{cfg: cfg, storage: b.Storage}

	var (
		verifier auth.Verifier
		issuer   employeehandlers.TokenIssuer
	)
	switch cfg.Auth.Mode {
	case config.AuthFirebase:
		if b.Firebase == nil {
			return nil, errors.New("firebase auth needs FIREBASE_PROJECT_ID")
		}
		verifier = auth.NewFirebaseVerifier(b.Firebase.Auth)
	case config.AuthDev:
		dev := auth.NewDevVerifier(cfg.Auth.JWTSecret, devTokenTTL)
		verifier, issuer = dev, dev
		a.devMode = true
	case config.AuthDisabled:
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}

	hub, socket := realtime.Init(cfg.ClientURL)
	a.hub, a.socket = hub, socket

	notes, notesHandler := notificator.Init(b.Notifications, hub)
	a.notifications = notesHandler
	pub := events{hub: hub}
	if cfg.NotifyInProcess {
		pub.notes = notes.NotificatorService
	}

	inv, invHandler := inventory.Init(b.Inventory, pub)
	ord, ordHandler := order.Init(b.Orders, inv.InventoryService, pub)
	_, a.analytics = analytics.Init(ord.OrderService, inv.InventoryService)
	mn, mnHandler := menu.Init(b.Menu)
	loy, loyHandler := loyalty.Init(b.Loyalty)
	_, a.weather = weather.Init(cfg.Weather)
	emp, empHandler := employee.Init(b.Employees, issuer)

	a.inventory, a.orders, a.menu, a.loyalty, a.employees = invHandler, ordHandler, mnHandler, loyHandler, empHandler
	a.inventorySvc, a.menuSvc, a.employeeSvc, a.loyaltySvc = inv.InventoryService, mn.MenuService, emp.EmployeeService, loy.LoyaltyService
	a.gate = auth.NewGate(verifier, emp.EmployeeService)
	return a, nil
}

// Hub is exposed for the cross-instance bridge.
func (a *App) Hub() *realtimesvc.Hub { return a.hub }

// Seed inserts demo data that is missing. Existing records are untouched.
func (a *App) Seed(ctx context.Context) error {
	seeds := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"inventory", a.inventorySvc.Seed},
		{"menu", a.menuSvc.Seed},
		{"employees", a.employeeSvc.Seed},
		{"loyalty", a.loyaltySvc.Seed},
	}
	for _, s := range seeds {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("seed %s: %w", s.name, err)
		}
	}
	return nil
}
