package server

import (
	"sync"
	"time"

	"synapse-cli/internal/model"
)

// aggregateCache is a single-entry TTL cache in front of the workspace
// pulls, so repeated dashboard requests do not hammer the service.
type aggregateCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	value    model.Aggregate
	storedAt time.Time
	filled   bool

	now func() time.Time
}

func newAggregateCache(ttl time.Duration) *aggregateCache {
	return &aggregateCache{ttl: ttl, now: time.Now}
}

func (c *aggregateCache) get() (model.Aggregate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.filled || c.now().Sub(c.storedAt) >= c.ttl {
		return model.Aggregate{}, false
	}
	return c.value, true
}

func (c *aggregateCache) set(agg model.Aggregate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = agg
	c.storedAt = c.now()
	c.filled = true
}
