package drivers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute, 10)

	_, ok := s.Get(ctx, "missing")
	assert.False(t, ok)

	s.Set(ctx, "k", "v")
	got, ok := s.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(20*time.Millisecond, 10)

	s.Set(ctx, "k", "v")
	_, ok := s.Get(ctx, "k")
	assert.True(t, ok)

	time.Sleep(40 * time.Millisecond)
	_, ok = s.Get(ctx, "k")
	assert.False(t, ok, "entry must expire after its TTL")
}

func TestMemoryStoreEvictsOldestAtCapacity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute, 3)

	for i := 0; i < 3; i++ {
		s.Set(ctx, fmt.Sprintf("k%d", i), "v")
		time.Sleep(2 * time.Millisecond) // distinct creation times
	}
	s.Set(ctx, "k3", "v")

	_, ok := s.Get(ctx, "k0")
	assert.False(t, ok, "oldest entry evicted")
	_, ok = s.Get(ctx, "k3")
	assert.True(t, ok)
	assert.LessOrEqual(t, s.cache.ItemCount(), 3)
}
