package l1

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"gql-proxy-cache/internal/interfaces"
	"gql-proxy-cache/internal/metrics"
	"gql-proxy-cache/internal/models"
)

// Ensure LRUCache implements interfaces.Cache
var _ interfaces.Cache = (*LRUCache)(nil)

// LRUCache is an entry-count bounded L1 cache with per-entry expiry
type LRUCache struct {
	cache  *lru.Cache[string, *models.CacheEntry]
	maxTTL time.Duration
	logger *zap.Logger
}

// NewLRUCache creates an L1 cache holding at most maxEntries responses
func NewLRUCache(maxEntries int, maxTTL time.Duration, logger *zap.Logger) (interfaces.Cache, error) {
	cache, err := lru.New[string, *models.CacheEntry](maxEntries)
	if err != nil {
		return nil, err
	}

	return &LRUCache{
		cache:  cache,
		maxTTL: maxTTL,
		logger: logger,
	}, nil
}

// Get retrieves a live value; expired entries are removed on access
func (lc *LRUCache) Get(key string) ([]byte, bool) {
	entry, ok := lc.cache.Get(key)
	if !ok {
		return nil, false
	}

	if entry.IsExpired() {
		lc.cache.Remove(key)
		return nil, false
	}

	return entry.Data, true
}

// Set stores value with TTL capped at the configured maximum
func (lc *LRUCache) Set(key string, val []byte, ttl time.Duration) {
	ttl = capTTL(ttl, lc.maxTTL)
	if ttl <= 0 {
		return
	}

	if evicted := lc.cache.Add(key, models.NewCacheEntry(val, ttl)); evicted {
		lc.logger.Debug("L1 LRU evicted oldest entry", zap.String("key", key))
	}
	metrics.UpdateCacheKeys("l1", int64(lc.cache.Len()))
}

// Delete removes entry from cache
func (lc *LRUCache) Delete(key string) {
	lc.cache.Remove(key)
}

// Len returns the number of entries currently held
func (lc *LRUCache) Len() int {
	return lc.cache.Len()
}
