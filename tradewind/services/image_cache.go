package services

import (
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/tradewind-gg/tradewind/tradewind/config"
)

// cachedImage is a cache entry with its fetch time for TTL checks.
type cachedImage struct {
	data      []byte
	fetchedAt time.Time
}

// ImageCache keeps recently served item artwork in memory so the image
// proxy does not hit Spaces on every request. Entries expire after a TTL
// on top of the LRU eviction.
type ImageCache struct {
	cache  *lru.Cache
	expiry time.Duration
}

func NewImageCache(size int, expiry time.Duration) *ImageCache {
	if size <= 0 {
		size = config.ImageCacheSize
	}
	if expiry <= 0 {
		expiry = config.ImageCacheExpiration
	}
	cache, _ := lru.New(size)
	return &ImageCache{cache: cache, expiry: expiry}
}

func (c *ImageCache) Get(key string) ([]byte, bool) {
	value, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	entry, ok := value.(cachedImage)
	if !ok {
		c.cache.Remove(key)
		return nil, false
	}
	if time.Since(entry.fetchedAt) > c.expiry {
		c.cache.Remove(key)
		return nil, false
	}
	return entry.data, true
}

func (c *ImageCache) Set(key string, data []byte) {
	c.cache.Add(key, cachedImage{data: data, fetchedAt: time.Now()})
}

func (c *ImageCache) Invalidate(key string) {
	c.cache.Remove(key)
}

func (c *ImageCache) Len() int {
	return c.cache.Len()
}
