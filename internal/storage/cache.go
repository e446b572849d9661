package storage

import (
	"sort"
	"sync"
)

// Cache is a process-local id → entity map owned by a single Store.
// Values are cloned on the way in and out so callers never share state with it.
// All access goes through one mutex.
type Cache[T Entity[T]] struct {
	mu     sync.Mutex
	items  map[string]T
	loaded bool
}

// NewCache creates an empty, not yet loaded cache.
func NewCache[T Entity[T]]() *Cache[T] {
	return &Cache[T]{items: make(map[string]T)}
}

// Get returns a copy of the cached entity.
func (c *Cache[T]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	return v.Clone(), true
}

// Put stores a copy of v under its id.
func (c *Cache[T]) Put(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[v.GetID()] = v.Clone()
}

// Remove drops the entry for id, if any.
func (c *Cache[T]) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, id)
}

// Fill adds the result of a full collection read and marks the cache loaded.
// Entries already present are kept: they were written after the read started.
func (c *Cache[T]) Fill(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, v := range items {
		if _, exists := c.items[v.GetID()]; exists {
			continue
		}
		c.items[v.GetID()] = v.Clone()
	}
	c.loaded = true
}

// All returns copies of every cached entity ordered by id.
func (c *Cache[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]T, 0, len(c.items))
	for _, v := range c.items {
		out = append(out, v.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetID() < out[j].GetID() })
	return out
}

// Loaded reports whether a full collection read has populated the cache.
func (c *Cache[T]) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loaded
}

// Len returns the number of cached entities.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// Invalidate empties the cache and clears the loaded flag.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]T)
	c.loaded = false
}
