package cache

import "sync"

// MapCache memoizes values by key for the lifetime of the process. It is safe
// for concurrent use and never evicts, so it suits small, stable key sets such
// as ticker to coin id mappings.
type MapCache[K comparable, V any] struct {
	entries sync.Map
}

func NewMapCache[K comparable, V any]() *MapCache[K, V] {
	return &MapCache[K, V]{}
}

// Set stores v under k, replacing any earlier value.
func (c *MapCache[K, V]) Set(k K, v V) {
	c.entries.Store(k, v)
}

// Get returns the value stored under k and whether it was present.
func (c *MapCache[K, V]) Get(k K) (v V, ok bool) {
	raw, ok := c.entries.Load(k)
	if ok {
		v = raw.(V)
	}
	return v, ok
}

// Len counts entries by walking the map. Use it for diagnostics and tests only.
func (c *MapCache[K, V]) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
