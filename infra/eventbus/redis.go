package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/fintrack/pkg/domain/events"
	"github.com/amirasaad/fintrack/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

// RedisEventBus appends events to a Redis Stream. Consumers read the
// stream with their own consumer groups.
type RedisEventBus struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

// NewWithRedis connects to url and verifies the connection.
func NewWithRedis(ctx context.Context, url, stream string, logger *slog.Logger) (*RedisEventBus, error) {
	if url == "" || stream == "" {
		return nil, fmt.Errorf("redis event bus: url and stream are required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}
	return NewRedisEventBus(client, stream, logger), nil
}

// NewRedisEventBus wraps an existing client.
func NewRedisEventBus(client *redis.Client, stream string, logger *slog.Logger) *RedisEventBus {
	return &RedisEventBus{
		client: client,
		stream: stream,
		logger: logger.With("bus", "redis", "stream", stream),
	}
}

// Emit appends the event to the stream under the "event" field.
func (b *RedisEventBus) Emit(ctx context.Context, event events.Event) error {
	body, err := encode(event)
	if err != nil {
		return fmt.Errorf("redis event bus: %w", err)
	}
	id, err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: b.stream,
		Values: map[string]any{"event": string(body)},
	}).Result()
	if err != nil {
		return fmt.Errorf("redis event bus: emit failed: %w", err)
	}
	b.logger.Debug("event emitted", "type", event.Type(), "id", id)
	return nil
}

// Close releases the client.
func (b *RedisEventBus) Close() error {
	return b.client.Close()
}

var _ eventbus.Bus = (*RedisEventBus)(nil)
