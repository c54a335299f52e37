// Package cache wraps the in-process TTL cache used to shield the database
// from the polling frontend during the auction window.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type Cache struct {
	store *gocache.Cache
}

// New builds a cache with per-entry TTLs and a one-minute janitor.
func New() *Cache {
	return &Cache{store: gocache.New(gocache.NoExpiration, time.Minute)}
}

func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}
