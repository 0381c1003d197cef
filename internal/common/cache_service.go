package common

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheService is the in-process cache. It is private to one server process,
// so a scheduled ingestion in another process does not invalidate it.
type CacheService struct {
	cache *cache.Cache
}

var _ CacheInterface = (*CacheService)(nil)

// NewCacheService creates an in-process cache. Entries set with a zero ttl
// use defaultTTL; expired entries are swept every cleanupInterval.
func NewCacheService(defaultTTL, cleanupInterval time.Duration) *CacheService {
	return &CacheService{cache: cache.New(defaultTTL, cleanupInterval)}
}

func (cs *CacheService) Get(_ context.Context, key string) (interface{}, bool) {
	return cs.cache.Get(key)
}

func (cs *CacheService) Set(_ context.Context, key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	cs.cache.Set(key, value, ttl)
}

func (cs *CacheService) Delete(_ context.Context, key string) {
	cs.cache.Delete(key)
}

func (cs *CacheService) Ping(context.Context) error { return nil }

func (cs *CacheService) Name() string { return "memory" }

func (cs *CacheService) Close() error {
	cs.cache.Flush()
	return nil
}
