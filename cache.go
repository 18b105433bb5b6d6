package yoloedit

// A small bounded cache for externally owned resources, such as decoded
// images.

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheCapacity is the decoded-image cache size used by DatasetIndex.
const DefaultCacheCapacity = 10

// BoundedCache is a fixed-capacity key/value cache with least-recently-used
// eviction. The release hook runs exactly once for every value that leaves
// the cache, whether by eviction, explicit removal or Clear, so external
// resources are freed deterministically. The capacity is fixed at
// construction.
type BoundedCache[K comparable, V any] struct {
	entries *lru.Cache[K, V]
}

// NewBoundedCache creates a cache holding at most capacity entries. The
// release hook may be nil when the cached values own no external resources.
func NewBoundedCache[K comparable, V any](capacity int, release func(key K, value V)) (*BoundedCache[K, V], error) {
	if release == nil {
		release = func(K, V) {}
	}

	entries, err := lru.NewWithEvict[K, V](capacity, release)
	if err != nil {
		return nil, err
	}
	return &BoundedCache[K, V]{entries: entries}, nil
}

// Get returns the value cached under key, promoting it to most recently used.
func (c *BoundedCache[K, V]) Get(key K) (V, bool) {
	return c.entries.Get(key)
}

// Contains reports whether key is cached, without promoting it.
func (c *BoundedCache[K, V]) Contains(key K) bool {
	return c.entries.Contains(key)
}

// Set stores value under key. An existing entry is replaced and promoted;
// otherwise, if the cache is full, the least recently used entry is released
// and evicted first.
func (c *BoundedCache[K, V]) Set(key K, value V) {
	c.entries.Add(key, value)
}

// Delete removes key from the cache, releasing its value. Returns whether the
// key was present.
func (c *BoundedCache[K, V]) Delete(key K) bool {
	return c.entries.Remove(key)
}

// Clear removes every entry, releasing each held value.
func (c *BoundedCache[K, V]) Clear() {
	c.entries.Purge()
}

// Len returns the number of cached entries.
func (c *BoundedCache[K, V]) Len() int {
	return c.entries.Len()
}
