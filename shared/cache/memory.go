package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hostel/infras/otel"

	goCache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = 5 * time.Minute

type memoryCache struct {
	store *goCache.Cache
	otel  otel.Otel
}

// NewMemoryCache returns a process-local cache with the same semantics as
// the Redis one: values are JSON encoded and a miss reports Nil.
func NewMemoryCache(ot otel.Otel) RedisCache {
	return &memoryCache{
		store: goCache.New(goCache.NoExpiration, memoryCleanupInterval),
		otel:  ot,
	}
}

func (cache *memoryCache) Save(ctx context.Context, key string, value any, duration int) (err error) {
	_, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Save")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	raw, err := encode(value)
	if err != nil {
		return err
	}

	expiration := goCache.NoExpiration
	if duration > 0 {
		expiration = time.Duration(duration) * time.Second
	}

	cache.store.Set(key, raw, expiration)

	return nil
}

func (cache *memoryCache) Get(ctx context.Context, key string, value any) (err error) {
	_, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Get")
	defer scope.End()
	defer func() {
		if !errors.Is(err, Nil) {
			scope.TraceIfError(err)
		}
	}()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	item, found := cache.store.Get(key)
	if !found {
		return fmt.Errorf("failed to get cache value: %w", Nil)
	}

	raw, _ := item.([]byte)

	return decode(raw, value)
}

func (cache *memoryCache) Delete(ctx context.Context, key string) error {
	_, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Delete")
	defer scope.End()

	cache.store.Delete(key)

	return nil
}

// Clear supports the trailing-wildcard patterns produced by InvalidateCaches.
func (cache *memoryCache) Clear(ctx context.Context, pattern string) error {
	_, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Clear")
	defer scope.End()

	prefix, wildcard := strings.CutSuffix(pattern, "*")

	for key := range cache.store.Items() {
		if key == pattern || (wildcard && strings.HasPrefix(key, prefix)) {
			cache.store.Delete(key)
		}
	}

	return nil
}
