package drivers

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

type entry struct {
	Value     string
	CreatedAt time.Time
}

// MemoryStore is the in-process cache driver: fixed TTL, bounded entry
// count, oldest-first eviction performed opportunistically on each write
// rather than by a background timer.
type MemoryStore struct {
	cache      *cache.Cache
	maxEntries int
}

func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	return &MemoryStore{
		cache:      cache.New(ttl, ttl*2),
		maxEntries: maxEntries,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	if x, found := s.cache.Get(key); found {
		return x.(entry).Value, true
	}
	return "", false
}

func (s *MemoryStore) Set(_ context.Context, key, value string) {
	s.evictOldest()
	s.cache.Set(key, entry{Value: value, CreatedAt: time.Now()}, cache.DefaultExpiration)
}

// evictOldest removes the oldest entries until the store is under capacity.
func (s *MemoryStore) evictOldest() {
	if s.maxEntries <= 0 {
		return
	}
	for s.cache.ItemCount() >= s.maxEntries {
		oldestKey := ""
		var oldestAt time.Time
		for key, item := range s.cache.Items() {
			e := item.Object.(entry)
			if oldestKey == "" || e.CreatedAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = e.CreatedAt
			}
		}
		if oldestKey == "" {
			return
		}
		s.cache.Delete(oldestKey)
	}
}
