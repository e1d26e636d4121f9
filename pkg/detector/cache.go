package detector

import (
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultCacheTTL  = 5 * time.Minute
	DefaultCacheSize = 256
)

// CacheStats is a snapshot of live (unexpired) cache entries.
type CacheStats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

type cacheEntry struct {
	scores []Score
	stored time.Time
}

// Cache holds ranked scores per absolute project path. It is owned by one Detector;
// expired entries are treated as absent and evicted when read.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries *lru.Cache[string, cacheEntry]
	now     func() time.Time
}

// NewCache creates a cache. Non-positive ttl or size fall back to the defaults.
func NewCache(ttl time.Duration, size int) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return &Cache{ttl: ttl, entries: entries, now: time.Now}
}

// Get returns the scores stored for key, evicting the entry if it has expired.
func (c *Cache) Get(key string) ([]Score, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if c.expired(e) {
		c.entries.Remove(key)
		return nil, false
	}
	return e.scores, true
}

// Put stores scores for key.
func (c *Cache) Put(key string, scores []Score) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(key, cacheEntry{scores: scores, stored: c.now()})
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}

// Stats purges expired entries and reports the rest.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.entries.Len())
	for _, k := range c.entries.Keys() {
		e, ok := c.entries.Peek(k)
		if !ok {
			continue
		}
		if c.expired(e) {
			c.entries.Remove(k)
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return CacheStats{Size: len(keys), Keys: keys}
}

func (c *Cache) expired(e cacheEntry) bool {
	return c.now().Sub(e.stored) > c.ttl
}
