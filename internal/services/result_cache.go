package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/ports"
)

// CacheKey derives the entry key from the exact query string. No case or
// whitespace folding happens here.
func CacheKey(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}

// ResultCache is a TTL-bounded view of the store's cache entries.
type ResultCache struct {
	State  ports.StateStore
	Logger ports.Logger
	Now    func() time.Time
}

// Load returns the cached outcome for query. It fails closed: a zero TTL,
// a missing or unreadable entry, an unknown status, or an age outside
// [0, ttl] are all misses.
func (c *ResultCache) Load(ctx context.Context, query string, ttlSeconds int) (domain.CacheStatus, []byte, bool) {
	if ttlSeconds <= 0 || c.State == nil {
		return "", nil, false
	}
	entry, ok, err := c.State.CacheEntry(ctx, CacheKey(query))
	if err != nil {
		c.debug("cache entry unreadable", map[string]interface{}{"error": err.Error()})
		return "", nil, false
	}
	if !ok || !entry.Status.Valid() {
		return "", nil, false
	}
	age := c.now().Unix() - entry.CachedAt
	if age < 0 || age > int64(ttlSeconds) {
		return "", nil, false
	}
	return entry.Status, entry.Payload, true
}

// Store records an outcome. Failures are logged and swallowed.
func (c *ResultCache) Store(ctx context.Context, query string, status domain.CacheStatus, payload []byte) {
	if c.State == nil {
		return
	}
	entry := domain.CacheEntry{
		Key:      CacheKey(query),
		CachedAt: c.now().Unix(),
		Status:   status,
		Payload:  payload,
	}
	if err := c.State.SetCacheEntry(ctx, entry); err != nil {
		c.debug("cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (c *ResultCache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *ResultCache) debug(msg string, fields map[string]interface{}) {
	if c.Logger != nil {
		c.Logger.Debug(msg, fields)
	}
}
