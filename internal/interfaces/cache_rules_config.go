package interfaces

import (
	"time"

	"gql-proxy-cache/internal/models"
)

//go:generate mockgen -package=mock -source=cache_rules_config.go -destination=mock/cache_rules_config.go

// CacheRulesConfig exposes the loaded cache rules
type CacheRulesConfig interface {
	// GetTtlForCacheType returns the TTL configured for a cache type
	GetTtlForCacheType(cacheType models.CacheType) time.Duration
	// GetCacheTypeForOperation resolves the cache type of an operation by name, then by type
	GetCacheTypeForOperation(operationType, operationName string) models.CacheType
	// HasOperationRules reports whether any per-operation rule is configured
	HasOperationRules() bool
}
