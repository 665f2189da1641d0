// Package cache provides a thread-safe TTL cache used to bound outbound
// call volume: within one TTL window a URL is fetched at most once per
// completed fetch. There is deliberately no request coalescing; two lookups
// racing before the first compute completes may both compute.
package cache

import (
	"sync"
	"time"
)

// DefaultCleanupInterval is how often expired entries are swept in the
// background. Expiry is also checked lazily on every Get.
const DefaultCleanupInterval = time.Minute

// entry is a single cached value. Entries are replaced wholesale, never
// mutated in place.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func (e *entry[V]) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// TTLCache is a thread-safe cache whose entries expire after a fixed,
// process-wide TTL.
type TTLCache[V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	items   map[string]*entry[V]
	metrics *Metrics

	shutdown chan struct{}
	done     chan struct{}
}

// Option configures a TTLCache.
type Option[V any] func(*TTLCache[V])

// WithMetrics attaches hit/miss counters to the cache.
func WithMetrics[V any](m *Metrics) Option[V] {
	return func(c *TTLCache[V]) {
		c.metrics = m
	}
}

// New creates a TTL cache and starts its background cleanup sweep.
func New[V any](ttl time.Duration, opts ...Option[V]) *TTLCache[V] {
	c := &TTLCache[V]{
		ttl:      ttl,
		items:    make(map[string]*entry[V]),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.cleanup()

	return c
}

// Get retrieves a live value by key, checking for expiration.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		var zero V
		c.metrics.miss()
		return zero, false
	}

	if e.isExpired() {
		c.mu.Lock()
		// Double-check it's still there and still expired.
		if current, still := c.items[key]; still && current.isExpired() {
			delete(c.items, key)
		}
		c.mu.Unlock()

		var zero V
		c.metrics.miss()
		return zero, false
	}

	c.metrics.hit()
	return e.value, true
}

// Set stores a value with expiry now + TTL, replacing any previous entry.
func (c *TTLCache[V]) Set(key string, value V) {
	e := &entry[V]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}

	c.mu.Lock()
	c.items[key] = e
	c.mu.Unlock()
}

// GetOrCompute returns the live cached value for key, or invokes compute,
// stores its result and returns it. A failed compute is not stored, so a
// transient failure does not poison the cache for a full TTL window.
func (c *TTLCache[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	c.Set(key, value)
	return value, nil
}

// Delete removes an entry by key.
func (c *TTLCache[V]) Delete(key string) bool {
	c.mu.Lock()
	_, exists := c.items[key]
	delete(c.items, key)
	c.mu.Unlock()
	return exists
}

// Size returns the current number of entries, expired or not.
func (c *TTLCache[V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the background cleanup goroutine.
func (c *TTLCache[V]) Close() {
	select {
	case <-c.shutdown:
	default:
		close(c.shutdown)
	}
	<-c.done
}

func (c *TTLCache[V]) cleanup() {
	defer close(c.done)

	ticker := time.NewTicker(DefaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.shutdown:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *TTLCache[V]) removeExpired() {
	now := time.Now()

	c.mu.Lock()
	for key, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, key)
		}
	}
	c.mu.Unlock()
}
