package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/fintrack/pkg/domain/events"
	"github.com/amirasaad/fintrack/pkg/eventbus"
	amqp "github.com/rabbitmq/amqp091-go"
)

const amqpPublishTimeout = 5 * time.Second

// AMQPEventBus publishes events to a durable direct exchange, routed by
// event type.
type AMQPEventBus struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewWithAMQP dials url and declares the exchange.
func NewWithAMQP(url, exchange string, logger *slog.Logger) (*AMQPEventBus, error) {
	if url == "" || exchange == "" {
		return nil, fmt.Errorf("amqp event bus: url and exchange are required")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp event bus: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp event bus: open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp event bus: declare exchange: %w", err)
	}
	return &AMQPEventBus{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		logger:   logger.With("bus", "amqp", "exchange", exchange),
	}, nil
}

// Emit publishes the event as a persistent JSON message.
func (b *AMQPEventBus) Emit(ctx context.Context, event events.Event) error {
	body, err := encode(event)
	if err != nil {
		return fmt.Errorf("amqp event bus: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, amqpPublishTimeout)
	defer cancel()

	// amqp channels are not safe for concurrent publishing
	b.mu.Lock()
	defer b.mu.Unlock()
	err = b.ch.PublishWithContext(ctx,
		b.exchange,
		event.Type(),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Type:         event.Type(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("amqp event bus: publish %s: %w", event.Type(), err)
	}
	b.logger.Debug("event published", "type", event.Type())
	return nil
}

// Close closes the channel and the connection.
func (b *AMQPEventBus) Close() error {
	if err := b.ch.Close(); err != nil {
		_ = b.conn.Close()
		return err
	}
	return b.conn.Close()
}

var _ eventbus.Bus = (*AMQPEventBus)(nil)
