package rabbitmq

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"cafesync/internal/config"
)

// EventsExchange fans café events out to every running instance.
const EventsExchange = "cafe_events"

// Headers on bridged events. SourceHeader is SourceClient for frames a
// socket client sent; the notificator only trusts server events.
const (
	OriginHeader = "x-origin"
	SourceHeader = "x-source"
	SourceServer = "server"
	SourceClient = "client"
)

// Rejected messages from durable queues end up in DeadLetterQueue.
const (
	DeadLetterExchange = "dlx"
	DeadLetterQueue    = "dlq"
)

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	acks <-chan amqp.Confirmation // для publisher confirms
	mu   sync.Mutex               // сериализуем Publish при использовании confirms
}

func (c *Client) Channel() *amqp.Channel { return c.ch }

func (c *Client) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func Dial(cfg config.RabbitMQConfig) (*Client, error) {
	vhost := cfg.VHost
	if vhost == "" {
		vhost = "/"
	}
	scheme := "amqp"
	if cfg.UseTLS {
		scheme = "amqps"
	}
	u := fmt.Sprintf("%s://%s:%s@%s:%d/%s",
		scheme, url.PathEscape(cfg.User), url.PathEscape(cfg.Password), cfg.Host, cfg.Port, url.PathEscape(vhost))

	var (
		conn *amqp.Connection
		err  error
	)
	if cfg.UseTLS {
		conn, err = amqp.DialTLS(u, &tls.Config{MinVersion: tls.VersionTLS12})
	} else {
		conn, err = amqp.Dial(u)
	}
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	// Включаем publisher confirms и подписываемся на подтверждения
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	if err := ch.ExchangeDeclare(EventsExchange, "fanout", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare %s: %w", EventsExchange, err)
	}

	return &Client{conn: conn, ch: ch, acks: acks}, nil
}

// Лёгкая health-проверка соединения
func (c *Client) Ping() error {
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// Publish публикует сообщение и ждёт ack/nack от брокера.
func (c *Client) Publish(ctx context.Context, exchange, key string,
	body []byte, headers amqp.Table, contentType string, persistent bool) error {

	c.mu.Lock()
	defer c.mu.Unlock()

	mode := amqp.Transient
	if persistent {
		mode = amqp.Persistent
	}

	if err := c.ch.PublishWithContext(
		ctx,
		exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: mode,
			ContentType:  contentType,
			Timestamp:    time.Now(),
			Headers:      headers,
			Body:         body,
		},
	); err != nil {
		return err
	}

	select {
	case conf := <-c.acks:
		if conf.Ack {
			return nil
		}
		return errors.New("publish NACK from broker")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscription is a consumer on its own channel, so acks never interleave
// with publisher confirms.
type Subscription struct {
	ch       *amqp.Channel
	tag      string
	Queue    string
	Messages <-chan amqp.Delivery
}

// Subscribe binds queue (server-named and exclusive when empty) to the
// events exchange and starts consuming with manual acks.
func (c *Client) Subscribe(queue, consumerTag string, prefetch int) (*Subscription, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, err
	}
	durable, exclusive := true, false
	if queue == "" {
		durable, exclusive = false, true
	}
	if durable {
		if err := declareDeadLetter(ch); err != nil {
			_ = ch.Close()
			return nil, err
		}
	}
	q, err := ch.QueueDeclare(queue, durable, !durable, exclusive, false, queueArgs(queue))
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue declare %q: %w", queue, err)
	}
	if err := ch.QueueBind(q.Name, "", EventsExchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue bind %s: %w", q.Name, err)
	}
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, err
	}
	msgs, err := ch.Consume(q.Name, consumerTag, false, exclusive, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return &Subscription{ch: ch, tag: consumerTag, Queue: q.Name, Messages: msgs}, nil
}

// queueArgs routes nack(requeue=false) on named queues to the dead-letter
// queue. Exclusive bridge queues drop rejects instead.
func queueArgs(queue string) amqp.Table {
	if queue == "" {
		return nil
	}
	return amqp.Table{
		"x-dead-letter-exchange":    DeadLetterExchange,
		"x-dead-letter-routing-key": DeadLetterQueue,
	}
}

func declareDeadLetter(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(DeadLetterExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", DeadLetterExchange, err)
	}
	if _, err := ch.QueueDeclare(DeadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare %s: %w", DeadLetterQueue, err)
	}
	if err := ch.QueueBind(DeadLetterQueue, DeadLetterQueue, DeadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("queue bind %s: %w", DeadLetterQueue, err)
	}
	return nil
}

// Close cancels the consumer; deliveries already in flight drain first.
func (s *Subscription) Close() {
	_ = s.ch.Cancel(s.tag, false)
	_ = s.ch.Close()
}
