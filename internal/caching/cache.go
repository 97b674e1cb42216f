package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

type CacheEntry struct {
	Value      interface{}
	Expiration time.Time
}

// Cache is a session scoped ttl cache, singleflight stops concurrent fetches
// for the same key hitting the api more than once.
type Cache struct {
	data      sync.Map
	group     singleflight.Group
	itemCount int32
}

func (c *Cache) GetOrCreate(key string, ttl time.Duration, createFn func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.data.Load(key); ok {
		cacheEntry := value.(CacheEntry)
		if cacheEntry.Expiration.After(time.Now()) {
			return cacheEntry.Value, nil
		}

		c.CleanUp()
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		if value, ok := c.data.Load(key); ok {
			cacheEntry := value.(CacheEntry)
			if cacheEntry.Expiration.After(time.Now()) {
				return cacheEntry.Value, nil
			}
		}

		v, err := createFn()
		if err != nil {
			return nil, err
		}

		c.data.Store(key, CacheEntry{
			Value:      v,
			Expiration: time.Now().Add(ttl),
		})
		atomic.AddInt32(&c.itemCount, 1)

		return v, nil
	})

	return value, err
}

func (c *Cache) CleanUp() {
	if atomic.LoadInt32(&c.itemCount) == 0 {
		return
	}

	c.data.Range(func(key, value interface{}) bool {
		entry := value.(CacheEntry)
		if entry.Expiration.Before(time.Now()) {
			c.data.Delete(key)
			atomic.AddInt32(&c.itemCount, -1)
		}
		return true
	})
}
