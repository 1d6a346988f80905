package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// memoryCache is a process-local fallback used in tests and when REDIS_ADDR
// is unset; it honors the same miss/TTL semantics as the redis cache.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

func NewMemory() Cache {
	return &memoryCache{entries: map[string]memoryEntry{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dest any) error {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return ErrMiss
	}
	return json.Unmarshal(entry.raw, dest)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, val any, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	entry := memoryEntry{raw: raw}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Close() error { return nil }
