package service

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"cafesync/internal/common/logger"
	"cafesync/internal/connections/rabbitmq"
	"cafesync/internal/domain"
)

var (
	ErrRequeue = errors.New("requeue")     // nack(requeue=true)
	ErrDLQ     = errors.New("dead_letter") // nack(requeue=false)
)

// NotificationsQueue is durable so events published while the subscriber
// is down are still turned into notifications.
const NotificationsQueue = "notifications_queue"

// Subscriber consumes cafe events from RabbitMQ and stores the
// notifications they produce.
type Subscriber struct {
	notifier *NotificatorService
	rmq      *rabbitmq.Client
	lg       *logger.Logger

	Queue    string
	Consumer string
	Prefetch int
}

func NewSubscriber(ns *NotificatorService, rmq *rabbitmq.Client, consumer string, prefetch int) *Subscriber {
	if consumer == "" {
		consumer = "notificator"
	}
	if prefetch <= 0 {
		prefetch = 10
	}
	return &Subscriber{
		notifier: ns,
		rmq:      rmq,
		lg:       logger.New("notification-subscriber"),
		Queue:    NotificationsQueue,
		Consumer: consumer,
		Prefetch: prefetch,
	}
}

// Run consumes until ctx is cancelled, then drains in-flight deliveries.
func (s *Subscriber) Run(ctx context.Context) error {
	sub, err := s.rmq.Subscribe(s.Queue, s.Consumer, s.Prefetch)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", s.Queue, err)
	}
	s.lg.Info("consumer_started", map[string]any{"queue": sub.Queue, "consumer": s.Consumer, "prefetch": s.Prefetch})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for d := range sub.Messages {
			s.settle(d, s.process(ctx, d))
		}
	}()

	select {
	case <-ctx.Done():
		s.lg.Info("graceful_shutdown", map[string]any{"consumer": s.Consumer})
		sub.Close()
		<-done
		return nil
	case <-done:
		return errors.New("consumer channel closed by broker")
	}
}

func (s *Subscriber) settle(d amqp.Delivery, err error) {
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrDLQ):
		s.lg.Warn("message_dead_lettered", map[string]any{"message_id": d.MessageId, "error": err.Error()})
		_ = d.Nack(false, false)
	default:
		s.lg.Error("message_requeued", err, map[string]any{"message_id": d.MessageId})
		_ = d.Nack(false, true)
	}
}

func (s *Subscriber) process(ctx context.Context, d amqp.Delivery) error {
	if source, _ := d.Headers[rabbitmq.SourceHeader].(string); source == rabbitmq.SourceClient {
		return nil
	}
	ev, err := domain.DecodeEvent(d.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDLQ, err)
	}
	if err := s.notifier.Handle(ctx, ev); err != nil {
		// второй провал подряд: не крутим сообщение бесконечно
		if d.Redelivered {
			return fmt.Errorf("%w: %v", ErrDLQ, err)
		}
		return fmt.Errorf("%w: %v", ErrRequeue, err)
	}
	return nil
}
