package cache

import (
	"context"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	go_cache "github.com/eko/gocache/store/go_cache/v4"
	gocache "github.com/patrickmn/go-cache"
)

// Local is an in-process cache of T values backed by go-cache.
type Local[T any] struct {
	manager *cache.Cache[T]
	ttl     time.Duration
}

// NewLocal builds a Local cache whose entries expire after ttl.
func NewLocal[T any](ttl time.Duration) *Local[T] {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	client := gocache.New(ttl, 2*ttl)
	return &Local[T]{
		manager: cache.New[T](go_cache.NewGoCache(client)),
		ttl:     ttl,
	}
}

// Get returns the cached value and whether it was present.
func (l *Local[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	if l == nil {
		return zero, false
	}
	v, err := l.manager.Get(ctx, key)
	if err != nil {
		return zero, false
	}
	return v, true
}

func (l *Local[T]) Set(ctx context.Context, key string, value T) error {
	if l == nil {
		return nil
	}
	return l.manager.Set(ctx, key, value, store.WithExpiration(l.ttl))
}

func (l *Local[T]) Delete(ctx context.Context, key string) error {
	if l == nil {
		return nil
	}
	return l.manager.Delete(ctx, key)
}
