package question

import (
	"sync"
	"time"
)

// resultCache holds filtered question lists keyed by normalized request
// shape. Expiry is lazy: an entry older than the TTL is treated as absent on
// the next read, there is no background sweep. At capacity, the single
// oldest-inserted entry is evicted before a new one goes in.
type resultCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	maxSize int
	ttl     time.Duration
	now     func() time.Time // mockable
}

type cacheEntry struct {
	questions  []Question
	insertedAt time.Time
}

func newResultCache(maxSize int, ttl time.Duration, now func() time.Time) *resultCache {
	if now == nil {
		now = time.Now
	}
	return &resultCache{
		entries: make(map[string]*cacheEntry),
		maxSize: maxSize,
		ttl:     ttl,
		now:     now,
	}
}

func (c *resultCache) get(key string) ([]Question, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.insertedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return copyQuestions(entry.questions), true
}

func (c *resultCache) put(key string, qs []Question) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = &cacheEntry{
		questions:  copyQuestions(qs),
		insertedAt: c.now(),
	}
}

// evictOldest removes the single oldest-inserted entry. Callers must hold mu.
func (c *resultCache) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.insertedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.insertedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *resultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// copyQuestions returns a defensive copy of the list; the records themselves
// are immutable and shared.
func copyQuestions(qs []Question) []Question {
	cp := make([]Question, len(qs))
	copy(cp, qs)
	return cp
}
