package respcache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"voice-ai-be/pkg/respcache/drivers"
)

// Options selects and tunes the cache driver.
type Options struct {
	Driver     string // "memory" or "redis"
	TTL        time.Duration
	MaxEntries int
	RedisURL   string
}

// New builds a Store for the configured driver.
func New(opts Options) (Store, error) {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = 100
	}

	switch opts.Driver {
	case "", "memory":
		return drivers.NewMemoryStore(opts.TTL, opts.MaxEntries), nil
	case "redis":
		redisOpts, err := redis.ParseURL(opts.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return drivers.NewRedisStore(redis.NewClient(redisOpts), opts.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", opts.Driver)
	}
}
