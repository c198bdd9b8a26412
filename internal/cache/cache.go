package cache

import (
	"strings"
	"time"

	"github.com/maypok86/otter/v2"
)

// Cache is the read-through cache used for computed analytics views.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	// DeletePrefix drops every key starting with prefix.
	DeletePrefix(prefix string)
	Clear()
	Size() int
}

// OtterCache is a size-bounded cache with write-based expiry.
type OtterCache[T any] struct {
	cache *otter.Cache[string, T]
}

// New builds an OtterCache holding at most maxSize entries, each living
// for ttl after it was written.
func New[T any](maxSize int, ttl time.Duration) *OtterCache[T] {
	initial := maxSize / 4
	if initial < 1 {
		initial = 1
	}
	return &OtterCache[T]{
		cache: otter.Must(&otter.Options[string, T]{
			MaximumSize:      maxSize,
			InitialCapacity:  initial,
			ExpiryCalculator: otter.ExpiryWriting[string, T](ttl),
		}),
	}
}

func (c *OtterCache[T]) Get(key string) (T, bool) {
	return c.cache.GetIfPresent(key)
}

func (c *OtterCache[T]) Set(key string, data T) {
	c.cache.Set(key, data)
}

func (c *OtterCache[T]) Delete(key string) {
	c.cache.Invalidate(key)
}

func (c *OtterCache[T]) DeletePrefix(prefix string) {
	var keys []string
	for k := range c.cache.All() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	for _, k := range keys {
		c.cache.Invalidate(k)
	}
}

func (c *OtterCache[T]) Clear() {
	c.cache.InvalidateAll()
}

func (c *OtterCache[T]) Size() int {
	return c.cache.EstimatedSize()
}

// Noop never stores anything; used when caching is disabled.
type Noop[T any] struct{}

func (Noop[T]) Get(string) (T, bool) {
	var zero T
	return zero, false
}
func (Noop[T]) Set(string, T)       {}
func (Noop[T]) Delete(string)       {}
func (Noop[T]) DeletePrefix(string) {}
func (Noop[T]) Clear()              {}
func (Noop[T]) Size() int           { return 0 }
