package interfaces

import (
	"time"

	"gql-proxy-cache/internal/models"
)

//go:generate mockgen -package=mock -source=cache.go -destination=mock/cache.go

// Cache interface defines the contract for cache implementations.
// Implementations swallow store errors and report them as misses.
type Cache interface {
	Get(key string) ([]byte, bool) // returns value and found flag
	Set(key string, val []byte, ttl time.Duration)
	Delete(key string)
}

// LevelAwareCache is a Cache that can report which level served a hit
type LevelAwareCache interface {
	Cache
	GetWithLevel(key string) models.CacheResult
}
