package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stripe retries failed deliveries for up to three days; a day-long
// window covers the practically observed redelivery bursts without
// growing the keyspace unbounded.
const eventTTL = 24 * time.Hour

// RedisEventRepository keeps a time-windowed set of handled webhook
// event ids.
type RedisEventRepository struct {
	redis redis.UniversalClient
}

func NewRedisEventRepository(client redis.UniversalClient) *RedisEventRepository {
	return &RedisEventRepository{
		redis: client,
	}
}

func (r *RedisEventRepository) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := r.redis.Exists(ctx, eventKey(eventID)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *RedisEventRepository) Mark(ctx context.Context, eventID string) error {
	return r.redis.SetNX(ctx, eventKey(eventID), 1, eventTTL).Err()
}

func eventKey(eventID string) string {
	return "webhook:event:" + eventID
}
