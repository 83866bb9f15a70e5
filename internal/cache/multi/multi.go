package multi

import (
	"time"

	"go.uber.org/zap"

	"gql-proxy-cache/internal/interfaces"
	"gql-proxy-cache/internal/models"
)

// Ensure MultiCache implements interfaces.LevelAwareCache
var _ interfaces.LevelAwareCache = (*MultiCache)(nil)

// levels maps cache position to the level reported in metrics
var levels = []models.CacheLevel{models.CacheLevelL1, models.CacheLevelL2}

// MultiCache implements a composite cache that tries multiple cache implementations
// in order, fastest first.
type MultiCache struct {
	caches            []interfaces.Cache
	logger            *zap.Logger
	enablePropagation bool
	propagationTTL    time.Duration
}

// NewMultiCache creates a new MultiCache instance with provided cache implementations.
// When enablePropagation is set, a hit in a later cache is copied into the earlier
// ones with propagationTTL.
func NewMultiCache(caches []interfaces.Cache, logger *zap.Logger, enablePropagation bool, propagationTTL time.Duration) *MultiCache {
	return &MultiCache{
		caches:            caches,
		logger:            logger,
		enablePropagation: enablePropagation,
		propagationTTL:    propagationTTL,
	}
}

// Get retrieves value from the first cache that has the key
func (mc *MultiCache) Get(key string) ([]byte, bool) {
	result := mc.GetWithLevel(key)
	return result.Data, result.Found
}

// GetWithLevel retrieves value and reports which level served it
func (mc *MultiCache) GetWithLevel(key string) models.CacheResult {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for get operation", zap.String("key", key))
		return models.CacheResult{Level: models.CacheLevelMiss}
	}

	for i, cache := range mc.caches {
		val, found := cache.Get(key)
		if !found {
			continue
		}

		if mc.enablePropagation && i > 0 {
			mc.propagate(key, val, i)
		}

		return models.CacheResult{
			Data:  val,
			Found: true,
			Level: levelAt(i),
		}
	}

	return models.CacheResult{Level: models.CacheLevelMiss}
}

// propagate copies a value found at position idx into all earlier caches
func (mc *MultiCache) propagate(key string, val []byte, idx int) {
	for i := 0; i < idx; i++ {
		mc.caches[i].Set(key, val, mc.propagationTTL)
	}
	mc.logger.Debug("Propagated cache hit to faster levels",
		zap.String("key", key),
		zap.String("source_level", string(levelAt(idx))))
}

// Set stores value in all available caches
func (mc *MultiCache) Set(key string, val []byte, ttl time.Duration) {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for set operation", zap.String("key", key))
		return
	}

	for _, cache := range mc.caches {
		cache.Set(key, val, ttl)
	}
}

// Delete removes entry from all available caches
func (mc *MultiCache) Delete(key string) {
	if len(mc.caches) == 0 {
		mc.logger.Warn("No caches available for delete operation", zap.String("key", key))
		return
	}

	for _, cache := range mc.caches {
		cache.Delete(key)
	}
}

// GetCacheCount returns the number of caches in the multi-cache
func (mc *MultiCache) GetCacheCount() int {
	return len(mc.caches)
}

func levelAt(i int) models.CacheLevel {
	if i < len(levels) {
		return levels[i]
	}
	return models.CacheLevelUnknown
}
