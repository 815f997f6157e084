package api

import (
	"context"
	"os"
	"strconv"

	"github.com/google/uuid"

	"cafesync/internal/app/backend"
	"cafesync/internal/common/httpx"
	"cafesync/internal/common/logger"
	"cafesync/internal/config"
	"cafesync/internal/connections/rabbitmq"
	realtimesvc "cafesync/internal/microservices/realtime/service"
)

// Run serves the REST api and station sockets until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	lg := logger.New("api")

	b, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	a, err := Build(cfg, b)
	if err != nil {
		return err
	}
	if cfg.SeedData {
		if err := a.Seed(ctx); err != nil {
			return err
		}
		lg.Info("seed_applied", map[string]any{"storage": b.Storage})
	}

	if cfg.RabbitMQ.Enabled() {
		rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			return err
		}
		defer rmq.Close()
		bridge := realtimesvc.NewBridge(rmq, InstanceID())
		a.Hub().SetForwarder(bridge)
		go func() {
			if err := bridge.Run(ctx, a.Hub().DeliverRemote); err != nil {
				lg.Error("bridge_stopped", err, nil)
			}
		}()
		lg.Info("rabbitmq_connected", map[string]any{"host": cfg.RabbitMQ.Host, "vhost": cfg.RabbitMQ.VHost})
	}

	srv := httpx.New(":"+strconv.Itoa(cfg.Port), a.Router())
	lg.Info("service_started", map[string]any{
		"port": cfg.Port, "storage": b.Storage, "auth": cfg.Auth.Mode, "env": cfg.AppEnv,
	})
	return srv.Run(ctx)
}

// InstanceID tags events this process puts on the broker.
func InstanceID() string {
	host, _ := os.Hostname()
	return host + "-" + uuid.NewString()[:8]
}
