package serp

import (
	"container/list"
	"strconv"
	"sync"
	"time"
)

// HitCache is a small TTL+LRU cache of per-query hit lists. It relieves
// provider quota when the same audit is re-run shortly after; the analysis
// engine itself stays request-scoped and stateless. Expired entries are
// dropped lazily on lookup.
type HitCache struct {
	maxSize int
	ttl     time.Duration

	mu    sync.Mutex
	items map[string]*hitEntry
	lru   *list.List

	now func() time.Time
}

type hitEntry struct {
	key      string
	hits     []Hit
	storedAt time.Time
	elem     *list.Element
}

// NewHitCache creates a cache holding up to maxSize queries for ttl each.
// Returns nil when either parameter disables caching.
func NewHitCache(maxSize int, ttl time.Duration) *HitCache {
	if maxSize <= 0 || ttl <= 0 {
		return nil
	}
	return &HitCache{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*hitEntry),
		lru:     list.New(),
		now:     time.Now,
	}
}

// CacheKey identifies one provider query.
func CacheKey(keyword, region string, resultCount int) string {
	return keyword + "|" + region + "|" + strconv.Itoa(resultCount)
}

// Get returns the cached hits for key, or false on miss or expiry.
func (c *HitCache) Get(key string) ([]Hit, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		c.remove(entry)
		return nil, false
	}

	c.lru.MoveToFront(entry.elem)
	return entry.hits, true
}

// Set stores hits for key, evicting the least recently used entry when full.
func (c *HitCache) Set(key string, hits []Hit) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		entry.hits = hits
		entry.storedAt = c.now()
		c.lru.MoveToFront(entry.elem)
		return
	}

	entry := &hitEntry{key: key, hits: hits, storedAt: c.now()}
	entry.elem = c.lru.PushFront(entry)
	c.items[key] = entry

	if len(c.items) > c.maxSize {
		if back := c.lru.Back(); back != nil {
			c.remove(back.Value.(*hitEntry))
		}
	}
}

// Len returns the number of cached queries.
func (c *HitCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *HitCache) remove(entry *hitEntry) {
	delete(c.items, entry.key)
	c.lru.Remove(entry.elem)
}
