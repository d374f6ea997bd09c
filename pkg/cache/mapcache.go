package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// MapCache is a typed concurrent cache with per-cache TTL. A TTL of zero
// means entries never expire.
type MapCache[K comparable, V any] struct {
	m   sync.Map
	ttl time.Duration
}

func NewMapCache[K comparable, V any](ttl time.Duration) *MapCache[K, V] {
	return &MapCache[K, V]{ttl: ttl}
}

func (c *MapCache[K, V]) Set(k K, v V) {
	e := entry[V]{value: v}
	if c.ttl > 0 {
		e.expiresAt = time.Now().Add(c.ttl)
	}
	c.m.Store(k, e)
}

func (c *MapCache[K, V]) Get(k K) (V, bool) {
	raw, ok := c.m.Load(k)
	if !ok {
		var zero V
		return zero, false
	}
	e := raw.(entry[V])
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.m.Delete(k)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *MapCache[K, V]) Delete(k K) { c.m.Delete(k) }

func (c *MapCache[K, V]) Clear() {
	c.m.Range(func(k, _ any) bool { c.m.Delete(k); return true })
}
