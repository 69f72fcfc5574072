package drivers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "voice:respcache:"

// RedisStore is the shared cache driver, for deployments where several
// processes should reuse each other's generated responses. Expiry is
// delegated to Redis TTLs.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	val, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (s *RedisStore) Set(ctx context.Context, key, value string) {
	// Best effort; a failed cache write is not worth surfacing.
	s.client.Set(ctx, redisKeyPrefix+key, value, s.ttl)
}
