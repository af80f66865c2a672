package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/xela07ax/paulis-place/internal/infra"
)

// RedisPublisher транслирует конверты в Pub/Sub: в общий канал и в канал встречи.
type RedisPublisher struct {
	rdb redis.UniversalClient
}

func NewRedisPublisher(rdb redis.UniversalClient) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish отправляет пачку одним pipeline.
func (p *RedisPublisher) Publish(ctx context.Context, batch []Envelope) error {
	if len(batch) == 0 {
		return nil
	}

	pipe := p.rdb.Pipeline()
	for _, e := range batch {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("events: marshal %s: %w", e.ID, err)
		}
		pipe.Publish(ctx, infra.RedisChanMeetingEvents, data)
		if e.Context.SessionID != "" {
			pipe.Publish(ctx, infra.MeetingChannel(e.Context.SessionID), data)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("events: redis publish: %w", err)
	}
	return nil
}

// NopPublisher используется, когда Redis не настроен.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, []Envelope) error { return nil }
