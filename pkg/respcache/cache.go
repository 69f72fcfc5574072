// Package respcache is a bounded, TTL-expiring cache of generated responses
// keyed by a fingerprint of the normalized input and the trailing dialogue
// window. It keeps repeated small-talk from costing a model round-trip.
package respcache

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"
)

// Store is the cache contract. Implementations are safe for concurrent use
// by many sessions.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// Fingerprint derives the cache key from the normalized input text and the
// trailing dialogue window.
func Fingerprint(input string, window []string) string {
	h := md5.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(input))))
	for _, w := range window {
		h.Write([]byte{0})
		h.Write([]byte(strings.ToLower(strings.TrimSpace(w))))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
