package memstore

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintNormalizes(t *testing.T) {
	assert.Equal(t, Fingerprint("  You Are A Pirate.  "), Fingerprint("you are a pirate."))
	assert.NotEqual(t, Fingerprint("a"), Fingerprint("b"))
}

func TestObserveAndRecall(t *testing.T) {
	s := New(time.Hour, 10)
	key := Fingerprint("You are helpful.")

	_, ok := s.Recall(key)
	assert.False(t, ok)

	s.Observe(key, []string{"my boss scheduled another meeting"})
	entry, ok := s.Recall(key)
	require.True(t, ok)
	assert.Contains(t, entry.Topics, "work")
	assert.Contains(t, entry.Summary, "work")
	assert.Len(t, entry.RecentUtterances, 1)
}

func TestObserveBoundsRecentUtterances(t *testing.T) {
	s := New(time.Hour, 10)
	key := Fingerprint("seed")

	for i := 0; i < 8; i++ {
		s.Observe(key, []string{fmt.Sprintf("utterance %d", i)})
	}

	entry, ok := s.Recall(key)
	require.True(t, ok)
	assert.Len(t, entry.RecentUtterances, maxRecentUtterances)
	assert.Equal(t, "utterance 7", entry.RecentUtterances[maxRecentUtterances-1])
}

func TestTopicsAreSortedAndDeduped(t *testing.T) {
	s := New(time.Hour, 10)
	key := Fingerprint("seed")

	s.Observe(key, []string{"the weather ruined our trip, I watched a movie instead"})
	entry, ok := s.Recall(key)
	require.True(t, ok)
	assert.Equal(t, []string{"movies", "travel", "weather"}, entry.Topics)
}

func TestNoTopicsSummary(t *testing.T) {
	s := New(time.Hour, 10)
	key := Fingerprint("seed")

	s.Observe(key, []string{"xyzzy plugh"})
	entry, ok := s.Recall(key)
	require.True(t, ok)
	assert.Empty(t, entry.Topics)
	assert.Contains(t, entry.Summary, "no recurring topics")
}

func TestEvictsOldestUser(t *testing.T) {
	s := New(time.Hour, 3)

	for i := 0; i < 3; i++ {
		s.Observe(fmt.Sprintf("user%d", i), []string{"hello"})
		time.Sleep(2 * time.Millisecond)
	}
	s.Observe("user3", []string{"hello"})

	_, ok := s.Recall("user0")
	assert.False(t, ok, "oldest user evicted at capacity")
	_, ok = s.Recall("user3")
	assert.True(t, ok)
	assert.LessOrEqual(t, s.Len(), 3)
}

func TestObserveIgnoresDegenerateInput(t *testing.T) {
	s := New(time.Hour, 10)
	s.Observe("", []string{"hello"})
	s.Observe("key", nil)
	assert.Equal(t, 0, s.Len())
}
