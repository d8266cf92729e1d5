// Package amqp publishes document lifecycle events to a RabbitMQ topic exchange.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/target/doctrack-api/internal/domain/model"
)

// DefaultExchange is used when no exchange name is configured.
const DefaultExchange = "doctrack.documents"

// Channel is the subset of *amqp091.Channel used by Publisher.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp091.Publishing,
	) error
	Close() error
}

// Publisher implements core.DocumentEventPublisher. The event type is the routing key.
type Publisher struct {
	mu       sync.Mutex
	ch       Channel
	conn     io.Closer
	exchange string
	logger   *slog.Logger
}

// Dial connects to the broker at url, opens a channel and declares the exchange.
func Dial(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open amqp channel: %w", err), conn.Close())
	}
	p, err := NewPublisher(ch, exchange, logger)
	if err != nil {
		return nil, errors.Join(err, ch.Close(), conn.Close())
	}
	p.conn = conn
	return p, nil
}

// NewPublisher declares a durable topic exchange on ch and returns a Publisher bound to it.
func NewPublisher(ch Channel, exchange string, logger *slog.Logger) (*Publisher, error) {
	if ch == nil {
		return nil, errors.New("amqp channel is required")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := ch.ExchangeDeclare(
		exchange,
		amqp091.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return &Publisher{ch: ch, exchange: exchange, logger: logger.With("component", "amqp_publisher")}, nil
}

// Publish sends evt as a persistent JSON message.
func (p *Publisher) Publish(ctx context.Context, evt model.DocumentEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal document event: %w", err)
	}

	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    evt.OccurredAt,
		Type:         string(evt.Type),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, p.exchange, string(evt.Type), false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	p.logger.DebugContext(ctx, "document event published",
		"type", evt.Type, "document_id", evt.DocumentID, "message_id", msg.MessageId)
	return nil
}

// Close closes the channel and, when the publisher owns it, the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.ch.Close()
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	return err
}
