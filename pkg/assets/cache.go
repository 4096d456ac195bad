// cache.go — Read-through, insert-once cache shared by concurrent renders.
package assets

import "sync"

// Cache memoises one load per key for the life of the process. Failed loads
// are cached too, so a missing asset is looked up only once. There is no
// update and no invalidation.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[V]
}

type entry[V any] struct {
	once sync.Once
	val  V
	err  error
}

// NewCache returns an empty cache.
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]*entry[V])}
}

// Get returns the value for key, calling load at most once per key even when
// many goroutines ask at the same time.
func (c *Cache[V]) Get(key string, load func() (V, error)) (V, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.mu.Lock()
		if e, ok = c.entries[key]; !ok {
			e = &entry[V]{}
			c.entries[key] = e
		}
		c.mu.Unlock()
	}

	e.once.Do(func() {
		e.val, e.err = load()
	})
	return e.val, e.err
}

// Len returns the number of keys seen so far.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
