package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rsvphub/internal/domain"
)

const eventViewKeyPrefix = "event_view:"

// RedisEventViewCache stores serialized event views in Redis with a TTL.
type RedisEventViewCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisEventViewCache(client redis.UniversalClient, ttl time.Duration) *RedisEventViewCache {
	return &RedisEventViewCache{client: client, ttl: ttl}
}

func eventViewKey(eventID string) string {
	return eventViewKeyPrefix + eventID
}

func (c *RedisEventViewCache) Get(ctx context.Context, eventID string) (*domain.EventWithRsvps, error) {
	data, err := c.client.Get(ctx, eventViewKey(eventID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get event view: %w", err)
	}

	var view domain.EventWithRsvps
	if err := json.Unmarshal(data, &view); err != nil {
		// A corrupt entry is treated as a miss so the caller refreshes it.
		return nil, domain.ErrCacheMiss
	}
	return &view, nil
}

func (c *RedisEventViewCache) Set(ctx context.Context, eventID string, view *domain.EventWithRsvps) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal event view: %w", err)
	}
	if err := c.client.Set(ctx, eventViewKey(eventID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set event view: %w", err)
	}
	return nil
}

func (c *RedisEventViewCache) Invalidate(ctx context.Context, eventID string) error {
	if err := c.client.Del(ctx, eventViewKey(eventID)).Err(); err != nil {
		return fmt.Errorf("invalidate event view: %w", err)
	}
	return nil
}
