package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"cafesync/internal/common/logger"
	"cafesync/internal/connections/rabbitmq"
	"cafesync/internal/domain"
)

const publishTimeout = 5 * time.Second

// Bridge mirrors station events across instances through the cafe_events
// fanout exchange. Each message carries the publishing instance id so an
// instance never re-delivers its own events.
type Bridge struct {
	rmq    *rabbitmq.Client
	origin string
	lg     *logger.Logger
}

func NewBridge(rmq *rabbitmq.Client, origin string) *Bridge {
	return &Bridge{rmq: rmq, origin: origin, lg: logger.New("realtime-bridge")}
}

// Publish sends a server event to the exchange. Failures are logged and dropped.
func (b *Bridge) Publish(ctx context.Context, ev domain.Event) {
	b.publish(ctx, ev, rabbitmq.SourceServer)
}

// Relay sends a socket client's frame; other instances deliver it but the
// notificator ignores it.
func (b *Bridge) Relay(ctx context.Context, ev domain.Event) {
	b.publish(ctx, ev, rabbitmq.SourceClient)
}

func (b *Bridge) publish(ctx context.Context, ev domain.Event, source string) {
	body, err := json.Marshal(ev)
	if err != nil {
		b.lg.Error("event_encode_failed", err, map[string]any{"type": ev.Type})
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := b.rmq.Publish(ctx, rabbitmq.EventsExchange, "", body,
		amqp.Table{rabbitmq.OriginHeader: b.origin, rabbitmq.SourceHeader: source}, "application/json", false); err != nil {
		b.lg.Error("event_publish_failed", err, map[string]any{"type": ev.Type})
	}
}

// Run consumes events from other instances into deliver until ctx is done.
func (b *Bridge) Run(ctx context.Context, deliver func(domain.Event)) error {
	sub, err := b.rmq.Subscribe("", "bridge-"+b.origin, 32)
	if err != nil {
		return err
	}
	b.lg.Info("bridge_started", map[string]any{"queue": sub.Queue, "origin": b.origin})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for d := range sub.Messages {
			if origin, _ := d.Headers[rabbitmq.OriginHeader].(string); origin == b.origin {
				_ = d.Ack(false)
				continue
			}
			ev, err := domain.DecodeEvent(d.Body)
			if err != nil {
				b.lg.Warn("bridge_event_rejected", map[string]any{"error": err.Error()})
				_ = d.Nack(false, false)
				continue
			}
			deliver(ev)
			_ = d.Ack(false)
		}
	}()

	select {
	case <-ctx.Done():
		sub.Close()
		<-done
		return nil
	case <-done:
		return errors.New("bridge consumer closed by broker")
	}
}
