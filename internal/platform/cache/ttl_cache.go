// Package cache provides small in-process caches bounded by size and age.
package cache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// TTLCache is a capacity-bounded LRU whose entries expire after a fixed TTL.
type TTLCache[K comparable, V any] struct {
	mu  sync.Mutex // makes Take atomic
	lru *expirable.LRU[K, V]
	ttl time.Duration
}

// NewTTLCache creates a cache holding at most size entries for ttl each.
func NewTTLCache[K comparable, V any](size int, ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		lru: expirable.NewLRU[K, V](size, nil, ttl),
		ttl: ttl,
	}
}

// Put stores value under key, evicting the oldest entry when full.
func (c *TTLCache[K, V]) Put(key K, value V) {
	c.lru.Add(key, value)
}

// Get returns the live value under key without removing it.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

// Take returns and removes the live value under key.
func (c *TTLCache[K, V]) Take(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.lru.Get(key)
	if ok {
		c.lru.Remove(key)
	}
	return value, ok
}

// Len is the number of entries, including ones not yet reaped.
func (c *TTLCache[K, V]) Len() int {
	return c.lru.Len()
}

// TTL is the lifetime of every entry.
func (c *TTLCache[K, V]) TTL() time.Duration {
	return c.ttl
}
