package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"return_app/internal/core/domain"
	"return_app/internal/ports/outbound"
)

type entry struct {
	rr      domain.ReturnRequest
	expires time.Time
	elem    *list.Element
}

// MemoryCache keeps return request details keyed by request id. When full,
// the oldest entry is evicted; entries older than ttl read as misses.
type MemoryCache struct {
	mu    sync.Mutex
	store map[string]*entry
	order *list.List
	max   int
	ttl   time.Duration
	now   func() time.Time
	stats *Stats
}

// NewMemoryCache builds a cache holding at most maxEntries entries (0 = unbounded)
// for ttl each (0 = forever).
func NewMemoryCache(maxEntries int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		store: make(map[string]*entry),
		order: list.New(),
		max:   maxEntries,
		ttl:   ttl,
		now:   time.Now,
		stats: NewStats(),
	}
}

func (c *MemoryCache) Get(_ context.Context, id string) (domain.ReturnRequest, bool) {
	c.mu.Lock()
	e, ok := c.store[id]
	if ok && c.expired(e) {
		c.remove(id, e)
		ok = false
	}
	c.mu.Unlock()

	if ok {
		c.stats.IncHit()
		return e.rr, true
	}

	c.stats.IncMiss()
	return domain.ReturnRequest{}, false
}

func (c *MemoryCache) Set(_ context.Context, rr domain.ReturnRequest) {
	if rr.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.store[rr.ID]; ok {
		e.rr = rr
		e.expires = c.deadline()
		c.order.MoveToBack(e.elem)
		return
	}

	e := &entry{rr: rr, expires: c.deadline()}
	e.elem = c.order.PushBack(rr.ID)
	c.store[rr.ID] = e

	for c.max > 0 && len(c.store) > c.max {
		oldest := c.order.Front()
		id := oldest.Value.(string)
		c.remove(id, c.store[id])
		c.stats.IncEviction()
	}
}

func (c *MemoryCache) Delete(_ context.Context, id string) {
	c.mu.Lock()
	if e, ok := c.store[id]; ok {
		c.remove(id, e)
	}
	c.mu.Unlock()
}

func (c *MemoryCache) Len(_ context.Context) int {
	c.mu.Lock()
	n := len(c.store)
	c.mu.Unlock()
	return n
}

// Stats reports hit, miss and eviction counters; logged on shutdown.
func (c *MemoryCache) Stats() (hits, misses, evictions uint64) {
	return c.stats.Snapshot()
}

func (c *MemoryCache) deadline() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(c.ttl)
}

func (c *MemoryCache) expired(e *entry) bool {
	return !e.expires.IsZero() && !c.now().Before(e.expires)
}

// remove expects c.mu held.
func (c *MemoryCache) remove(id string, e *entry) {
	c.order.Remove(e.elem)
	delete(c.store, id)
}

var _ outbound.ReturnCache = (*MemoryCache)(nil)
