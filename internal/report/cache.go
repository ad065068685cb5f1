package report

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "report:sales:"

// Cache memoizes computed reports in Redis keyed by a digest of the raw
// request payload. Strategies are pure, so identical payloads always produce
// identical reports and a TTL-bounded cache entry is safe. A nil client or
// non-positive TTL disables caching; lookup failures degrade to
// compute-only.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a report cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Key derives the cache key for a raw request payload.
func (c *Cache) Key(payload []byte) string {
	sum := sha256.Sum256(payload)
	return cachePrefix + hex.EncodeToString(sum[:])
}

type cachedReport struct {
	Rows  []Row `json:"rows"`
	Stats Stats `json:"stats"`
}

// Get returns a previously computed report. The bool result reports whether
// the key existed and decoded cleanly.
func (c *Cache) Get(ctx context.Context, key string) ([]Row, Stats, bool) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil, Stats{}, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, Stats{}, false
	}
	var cached cachedReport
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, Stats{}, false
	}
	return cached.Rows, cached.Stats, true
}

// Set stores a computed report best effort.
func (c *Cache) Set(ctx context.Context, key string, rows []Row, stats Stats) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(cachedReport{Rows: rows, Stats: stats})
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, data, c.ttl).Err()
}
