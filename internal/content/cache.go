package content

import "sync"

// Cache holds a whole-list snapshot of one collection. It is replaced
// wholesale after every write and never partially mutated, so readers only
// ever see a complete, consistent listing. Construct one per service; there
// is deliberately no package-level instance.
type Cache[T any] struct {
	mu        sync.RWMutex
	items     []T
	populated bool
}

func NewCache[T any]() *Cache[T] {
	return &Cache[T]{}
}

// Snapshot returns the cached listing and whether the cache has ever been
// populated. The returned slice must not be mutated by callers.
func (c *Cache[T]) Snapshot() ([]T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items, c.populated
}

// Replace swaps in a fresh listing.
func (c *Cache[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.populated = true
}

// Invalidate forces the next List to query the store.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.populated = false
}
