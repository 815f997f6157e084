// Package notify runs the notification-subscriber process: it consumes cafe
// events from RabbitMQ and writes notifications to the shared store.
package notify

import (
	"context"
	"errors"

	"cafesync/internal/app/api"
	"cafesync/internal/app/backend"
	"cafesync/internal/common/logger"
	"cafesync/internal/config"
	"cafesync/internal/connections/rabbitmq"
	"cafesync/internal/microservices/notificator"
	notifysvc "cafesync/internal/microservices/notificator/service"
	realtimesvc "cafesync/internal/microservices/realtime/service"
)

func Run(ctx context.Context, cfg *config.Config) error {
	lg := logger.New("notification-subscriber")
	if !cfg.RabbitMQ.Enabled() {
		return errors.New("notification-subscriber needs RABBITMQ_HOST")
	}
	if cfg.Storage == config.StorageMemory {
		lg.Warn("memory_storage", map[string]any{"note": "notifications are not visible to api instances"})
	}

	b, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
	if err != nil {
		return err
	}
	defer rmq.Close()
	if err := rmq.Ping(); err != nil {
		return err
	}

	// stored notifications go back on the exchange so every api instance
	// pushes them to its sockets
	bridge := realtimesvc.NewBridge(rmq, api.InstanceID())
	svc, _ := notificator.Init(b.Notifications, bridge)

	sub := notifysvc.NewSubscriber(svc.NotificatorService, rmq, "notificator-"+api.InstanceID(), 10)
	lg.Info("service_started", map[string]any{"storage": b.Storage, "queue": sub.Queue})
	return sub.Run(ctx)
}
