// Package backend opens the storage selected at startup and builds every
// repository on top of it.
package backend

import (
	"context"
	"database/sql"
	"fmt"

	"cafesync/internal/common/logger"
	"cafesync/internal/config"
	"cafesync/internal/connections/database"
	"cafesync/internal/connections/firebase"
	employeerepo "cafesync/internal/microservices/employee/repository"
	inventoryrepo "cafesync/internal/microservices/inventory/repository"
	loyaltyrepo "cafesync/internal/microservices/loyalty/repository"
	menurepo "cafesync/internal/microservices/menu/repository"
	notifyrepo "cafesync/internal/microservices/notificator/repository"
	orderrepo "cafesync/internal/microservices/order/repository"
)

type Backend struct {
	Storage  string
	SQL      *sql.DB
	Firebase *firebase.App // also set for firebase auth over another store

	Orders        *orderrepo.Repository
	Inventory     inventoryrepo.InventoryRepositoryInterface
	Menu          menurepo.MenuRepositoryInterface
	Employees     employeerepo.EmployeeRepositoryInterface
	Loyalty       loyaltyrepo.LoyaltyRepositoryInterface
	Notifications notifyrepo.NotificationRepositoryInterface
}

// Memory is the process-local backend used in development and tests.
func Memory() *Backend {
	return &Backend{
		Storage:       config.StorageMemory,
		Orders:        orderrepo.NewMemory(),
		Inventory:     inventoryrepo.NewMemory(),
		Menu:          menurepo.NewMemory(),
		Employees:     employeerepo.NewMemory(),
		Loyalty:       loyaltyrepo.NewMemory(),
		Notifications: notifyrepo.NewMemory(),
	}
}

// Open connects to the configured storage. Postgres gets its schema applied
// before any repository is used.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	lg := logger.New("backend")

	var app *firebase.App
	if cfg.Firebase.Enabled() {
		var err error
		if app, err = firebase.Init(ctx, cfg.Firebase); err != nil {
			return nil, err
		}
		lg.Info("firebase_connected", map[string]any{"project_id": cfg.Firebase.ProjectID})
	}

	var b *Backend
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := database.ConnectDB(ctx, cfg.Database)
		if err != nil {
			closeApp(app)
			return nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			closeApp(app)
			return nil, err
		}
		lg.Info("postgres_connected", map[string]any{"host": cfg.Database.Host, "database": cfg.Database.Database})
		b = &Backend{
			SQL:           db,
			Orders:        orderrepo.NewPostgres(db),
			Inventory:     inventoryrepo.NewPostgres(db),
			Menu:          menurepo.NewPostgres(db),
			Employees:     employeerepo.NewPostgres(db),
			Loyalty:       loyaltyrepo.NewPostgres(db),
			Notifications: notifyrepo.NewPostgres(db),
		}
	case config.StorageFirestore:
		if app == nil {
			return nil, fmt.Errorf("firestore storage needs firebase credentials")
		}
		fs := app.Firestore
		b = &Backend{
			Orders:        orderrepo.NewFirestore(fs),
			Inventory:     inventoryrepo.NewFirestore(fs),
			Menu:          menurepo.NewFirestore(fs),
			Employees:     employeerepo.NewFirestore(fs),
			Loyalty:       loyaltyrepo.NewFirestore(fs),
			Notifications: notifyrepo.NewFirestore(fs),
		}
	default:
		lg.Warn("memory_storage", map[string]any{"note": "data is lost on restart"})
		b = Memory()
	}
	b.Storage = cfg.Storage
	b.Firebase = app
	return b, nil
}

func closeApp(app *firebase.App) {
	if app != nil {
		_ = app.Close()
	}
}

func (b *Backend) Close() {
	if b.SQL != nil {
		_ = b.SQL.Close()
	}
	closeApp(b.Firebase)
}
