package l1

import (
	"context"
	"encoding/json"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"gql-proxy-cache/internal/interfaces"
	"gql-proxy-cache/internal/metrics"
	"gql-proxy-cache/internal/models"
	"gql-proxy-cache/internal/scheduler"
)

const metricsInterval = 30 * time.Second

// Ensure BigCache implements interfaces.Cache
var _ interfaces.Cache = (*BigCache)(nil)

// BigCache implements L1 cache using BigCache
type BigCache struct {
	cache            *bigcache.BigCache
	sizeMB           int
	maxTTL           time.Duration
	logger           *zap.Logger
	metricsScheduler *scheduler.Scheduler
}

// NewBigCache creates a new BigCache instance holding at most sizeMB megabytes.
// Entries never outlive maxTTL regardless of the TTL passed to Set.
func NewBigCache(sizeMB int, maxTTL time.Duration, logger *zap.Logger) (interfaces.Cache, error) {
	config := bigcache.DefaultConfig(maxTTL)
	config.Shards = 64
	config.CleanWindow = time.Minute
	config.HardMaxCacheSize = sizeMB
	config.Verbose = false
	config.MaxEntrySize = 64 * 1024

	cache, err := bigcache.New(context.Background(), config)
	if err != nil {
		return nil, err
	}

	bc := &BigCache{
		cache:  cache,
		sizeMB: sizeMB,
		maxTTL: maxTTL,
		logger: logger,
	}

	bc.startMetricsCollection()

	return bc, nil
}

// Get retrieves a live value from cache
func (bc *BigCache) Get(key string) ([]byte, bool) {
	data, err := bc.cache.Get(key)
	if err != nil {
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		bc.logger.Warn("Failed to unmarshal L1 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l1", "decode")
		_ = bc.cache.Delete(key) // Remove corrupted entry
		return nil, false
	}

	if entry.IsExpired() {
		_ = bc.cache.Delete(key)
		return nil, false
	}

	return entry.Data, true
}

// Set stores value in cache with TTL capped at the configured maximum
func (bc *BigCache) Set(key string, val []byte, ttl time.Duration) {
	ttl = capTTL(ttl, bc.maxTTL)
	if ttl <= 0 {
		return
	}

	data, err := json.Marshal(models.NewCacheEntry(val, ttl))
	if err != nil {
		bc.logger.Error("Failed to marshal cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l1", "encode")
		return
	}

	if err := bc.cache.Set(key, data); err != nil {
		bc.logger.Error("Failed to set cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l1", "write")
	}
}

// Delete removes entry from cache
func (bc *BigCache) Delete(key string) {
	_ = bc.cache.Delete(key)
}

// Close stops metrics collection and releases the cache
func (bc *BigCache) Close() error {
	bc.stopMetricsCollection()
	return bc.cache.Close()
}

// GetStats returns configured capacity and currently allocated bytes
func (bc *BigCache) GetStats() (capacity, used int64) {
	capacity = int64(bc.sizeMB) * 1024 * 1024
	used = int64(bc.cache.Capacity())
	return capacity, used
}

func (bc *BigCache) startMetricsCollection() {
	bc.metricsScheduler = scheduler.New(metricsInterval, bc.updateMetrics)
	bc.metricsScheduler.Start()

	// Initial collection
	bc.updateMetrics()

	bc.logger.Debug("Started L1 cache metrics collection")
}

func (bc *BigCache) stopMetricsCollection() {
	if bc.metricsScheduler != nil {
		bc.metricsScheduler.Stop()
		bc.logger.Debug("Stopped L1 cache metrics collection")
	}
}

func (bc *BigCache) updateMetrics() {
	capacity, used := bc.GetStats()
	metrics.UpdateL1CacheCapacity(capacity, used)
	metrics.UpdateCacheKeys("l1", int64(bc.cache.Len()))
}

// capTTL bounds ttl by max when max is positive
func capTTL(ttl, max time.Duration) time.Duration {
	if max > 0 && ttl > max {
		return max
	}
	return ttl
}
