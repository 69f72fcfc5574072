// Package memstore is a best-effort long-term memory keyed by a coarse user
// fingerprint. It extracts topic tags from recent dialogue with a keyword
// heuristic and keeps a short rolling summary. Everything here is a hint for
// the generator, never a source of truth, and the whole component is
// replaceable behind its small surface.
package memstore

import (
	"crypto/md5"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Entry is what the store remembers about one user.
type Entry struct {
	Topics           []string
	Summary          string
	RecentUtterances []string
	UpdatedAt        time.Time
	CreatedAt        time.Time
}

const maxRecentUtterances = 5

// topicLexicon maps a topic tag to trigger keywords. Deliberately small;
// this is a heuristic, not NLP.
var topicLexicon = map[string][]string{
	"work":       {"work", "job", "office", "meeting", "boss", "project"},
	"family":     {"family", "kids", "children", "wife", "husband", "parents"},
	"weather":    {"weather", "rain", "sunny", "snow", "cold", "hot"},
	"food":       {"food", "eat", "dinner", "lunch", "cooking", "recipe"},
	"travel":     {"travel", "trip", "vacation", "flight", "visit"},
	"health":     {"health", "doctor", "sick", "tired", "sleep", "exercise"},
	"music":      {"music", "song", "listen", "band", "concert"},
	"movies":     {"movie", "film", "watch", "show", "series"},
	"sports":     {"sport", "game", "team", "play", "match", "football"},
	"technology": {"computer", "phone", "software", "internet", "app", "code"},
}

// Store holds memory entries with a long TTL and a bounded entry count,
// evicting oldest-first on insert.
type Store struct {
	mu         sync.Mutex
	cache      *cache.Cache
	maxEntries int
}

// New builds a store. TTL defaults to 24 hours, capacity to 100 entries.
func New(ttl time.Duration, maxEntries int) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &Store{
		cache:      cache.New(ttl, time.Hour),
		maxEntries: maxEntries,
	}
}

// Fingerprint derives the coarse user key from the first dialogue turn.
func Fingerprint(firstTurnContent string) string {
	normalized := strings.ToLower(strings.TrimSpace(firstTurnContent))
	return fmt.Sprintf("%x", md5.Sum([]byte(normalized)))
}

// Recall returns the remembered entry for the key, if any.
func (s *Store) Recall(key string) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if x, found := s.cache.Get(key); found {
		e := x.(Entry)
		return &e, true
	}
	return nil, false
}

// Observe folds new user utterances into the entry for the key, re-deriving
// topics and the summary from the merged recent window.
func (s *Store) Observe(key string, utterances []string) {
	if key == "" || len(utterances) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := Entry{CreatedAt: time.Now()}
	if x, found := s.cache.Get(key); found {
		e = x.(Entry)
	} else {
		s.evictOldest()
	}

	e.RecentUtterances = append(e.RecentUtterances, utterances...)
	if len(e.RecentUtterances) > maxRecentUtterances {
		e.RecentUtterances = e.RecentUtterances[len(e.RecentUtterances)-maxRecentUtterances:]
	}
	e.Topics = extractTopics(e.RecentUtterances)
	e.Summary = summarize(e.Topics, len(e.RecentUtterances))
	e.UpdatedAt = time.Now()

	s.cache.Set(key, e, cache.DefaultExpiration)
}

// Len reports the number of remembered users.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.ItemCount()
}

func (s *Store) evictOldest() {
	for s.cache.ItemCount() >= s.maxEntries {
		oldestKey := ""
		var oldestAt time.Time
		for key, item := range s.cache.Items() {
			e := item.Object.(Entry)
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

func extractTopics(utterances []string) []string {
	joined := strings.ToLower(strings.Join(utterances, " "))
	var topics []string
	for topic, keywords := range topicLexicon {
		for _, kw := range keywords {
			if strings.Contains(joined, kw) {
				topics = append(topics, topic)
				break
			}
		}
	}
	sort.Strings(topics)
	return topics
}

func summarize(topics []string, utteranceCount int) string {
	if len(topics) == 0 {
		return fmt.Sprintf("Exchanged %d utterances, no recurring topics yet.", utteranceCount)
	}
	return fmt.Sprintf("Has talked about %s.", strings.Join(topics, ", "))
}
