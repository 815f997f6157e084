package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cafesync/internal/app/api"
	"cafesync/internal/app/backend"
	"cafesync/internal/app/notify"
	"cafesync/internal/common/logger"
	"cafesync/internal/config"
)

const usage = "api | notification-subscriber | migrate"

func main() {
	mode := flag.String("mode", "api", usage)
	cfgPath := flag.String("config", "config.yml", "optional YAML config, environment variables win")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.Setup(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	lg := logger.New("bootstrap")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "api":
		err = api.Run(ctx, cfg)
	case "notification-subscriber":
		err = notify.Run(ctx, cfg)
	case "migrate":
		err = migrate(ctx, cfg)
	default:
		fmt.Fprintln(os.Stderr, "--mode must be one of: "+usage)
		os.Exit(2)
	}
	if err != nil {
		lg.Error("fatal", err, map[string]any{"mode": *mode})
		os.Exit(1)
	}
	lg.Info("service_stopped", map[string]any{"mode": *mode})
}

// migrate applies the schema (done when the backend opens) and seeds.
func migrate(ctx context.Context, cfg *config.Config) error {
	b, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()
	a, err := api.Build(cfg, b)
	if err != nil {
		return err
	}
	if err := a.Seed(ctx); err != nil {
		return err
	}
	logger.New("migrate").Info("migration_done", map[string]any{"storage": b.Storage})
	return nil
}
