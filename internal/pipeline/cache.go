package pipeline

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"dashboard-pipeline/internal/model"
)

// Cache holds successful fetch results.
type Cache interface {
	Get(key string) (CachedResult, bool)
	Set(key string, res CachedResult)
	Delete(key string)
}

// CachedResult is a fetched dataset and when it was fetched.
type CachedResult struct {
	Dataset   model.Dataset
	FetchedAt time.Time
}

// CacheKey scopes a key to its owner and to a hash of the canonical config,
// so a saved source whose config changed never hits the old rows.
func CacheKey(owner, dataSourceID string, cfg model.SourceConfig) (string, error) {
	b, err := json.Marshal(cfg.Normalize())
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	if dataSourceID != "" {
		return fmt.Sprintf("source:%s:%s:%016x", owner, dataSourceID, xxh3.Hash(b)), nil
	}
	return fmt.Sprintf("config:%s:%016x", owner, xxh3.Hash(b)), nil
}

type memEntry struct {
	res     CachedResult
	expires time.Time
}

// MemoryCache is an in-process TTL cache.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memEntry
}

// NewMemoryCache returns a cache whose entries live for ttl. A ttl <= 0
// disables caching.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memEntry)}
}

func (c *MemoryCache) Get(key string) (CachedResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return CachedResult{}, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return CachedResult{}, false
	}
	return e.res, true
}

func (c *MemoryCache) Set(key string, res CachedResult) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memEntry{res: res, expires: c.now().Add(c.ttl)}
}

func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
