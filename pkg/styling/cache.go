package styling

import (
	"sync"
	"sync/atomic"
)

// RuleCache maps canonical keys to their records. It only grows.
type RuleCache struct {
	mu      sync.RWMutex
	records map[CanonicalKey]*RuleRecord

	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats is a snapshot of cache counters
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// NewRuleCache creates an empty rule cache
func NewRuleCache() *RuleCache {
	return &RuleCache{
		records: make(map[CanonicalKey]*RuleRecord),
	}
}

// GetOrCreate returns the record stored under key. If there is none, factory
// is called exactly once, and its result is stored and returned. created
// reports whether factory ran.
func (c *RuleCache) GetOrCreate(key CanonicalKey, factory func() *RuleRecord) (rec *RuleRecord, created bool) {
	c.mu.RLock()
	rec, ok := c.records[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return rec, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// lost the race to another writer
	if rec, ok := c.records[key]; ok {
		c.hits.Add(1)
		return rec, false
	}

	rec = factory()
	c.records[key] = rec
	c.misses.Add(1)
	return rec, true
}

// Get looks up a record without creating one
func (c *RuleCache) Get(key CanonicalKey) (*RuleRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[key]
	return rec, ok
}

// Len returns the number of cached records
func (c *RuleCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Stats returns hit/miss counters and the entry count
func (c *RuleCache) Stats() CacheStats {
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.Len(),
	}
}
