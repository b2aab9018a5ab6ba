package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/PhamQuy48/storefront/internal/domain/model"
)

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

var dial = func(url string) (io.Closer, channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open amqp channel: %w", err)
	}
	return conn, ch, nil
}

// Message is the wire form of an order event.
type Message struct {
	OrderID       string    `json:"orderId"`
	Number        string    `json:"number"`
	UserID        int64     `json:"userId"`
	From          string    `json:"from,omitempty"`
	To            string    `json:"to"`
	PaymentStatus string    `json:"paymentStatus"`
	ActorID       int64     `json:"actorId"`
	ActorRole     string    `json:"actorRole"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Publisher sends order events to a topic exchange. Routing keys have the
// form order.<status>.
type Publisher struct {
	mu       sync.Mutex
	conn     io.Closer
	ch       channel
	exchange string
	logger   *slog.Logger
}

// Dial connects to url and declares exchange.
func Dial(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	conn, ch, err := dial(url)
	if err != nil {
		return nil, err
	}
	p, err := newPublisher(conn, ch, exchange, logger)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return p, nil
}

func newPublisher(conn io.Closer, ch channel, exchange string, logger *slog.Logger) (*Publisher, error) {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange, logger: logger}, nil
}

// RoutingKey returns the routing key used for ev.
func RoutingKey(ev model.OrderEvent) string {
	return "order." + strings.ToLower(string(ev.To))
}

// PublishOrderEvent sends ev as a persistent JSON message.
func (p *Publisher) PublishOrderEvent(ctx context.Context, ev model.OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(Message{
		OrderID:       ev.OrderID.String(),
		Number:        ev.Number,
		UserID:        ev.UserID,
		From:          string(ev.From),
		To:            string(ev.To),
		PaymentStatus: string(ev.PaymentStatus),
		ActorID:       ev.Actor.UserID,
		ActorRole:     string(ev.Actor.Role),
		OccurredAt:    ev.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.Publish(p.exchange, RoutingKey(ev), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    fmt.Sprintf("%s:%s", ev.OrderID, ev.To),
		Timestamp:    ev.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}

	p.logger.Debug("order event published", slog.String("routing_key", RoutingKey(ev)), slog.String("order_id", ev.OrderID.String()))
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if err := p.ch.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close channel: %w", err))
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close amqp publisher: %v", errs)
	}
	return nil
}

// Nop discards events. It is used when no broker is configured.
type Nop struct{}

// PublishOrderEvent does nothing.
func (Nop) PublishOrderEvent(context.Context, model.OrderEvent) error { return nil }
