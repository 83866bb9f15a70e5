package cache_rules

import (
	"time"

	"go.uber.org/zap"

	"gql-proxy-cache/internal/interfaces"
	"gql-proxy-cache/internal/models"
)

// DefaultShortTTL applies to "short" operations when ttl_defaults does not set it
const DefaultShortTTL = 300 * time.Second

// CacheConfig implements the CacheRulesConfig interface
type CacheConfig struct {
	config     *CacheRulesConfig
	defaultTTL time.Duration
	logger     *zap.Logger
}

// Ensure CacheConfig implements the CacheRulesConfig interface
var _ interfaces.CacheRulesConfig = (*CacheConfig)(nil)

// NewCacheConfig creates a new CacheConfig instance. defaultTTL backs the "default"
// cache type unless ttl_defaults overrides it. A nil config means no rules.
func NewCacheConfig(config *CacheRulesConfig, defaultTTL time.Duration, logger *zap.Logger) *CacheConfig {
	if config == nil {
		config = &CacheRulesConfig{}
	}
	return &CacheConfig{
		config:     config,
		defaultTTL: defaultTTL,
		logger:     logger,
	}
}

// GetTtlForCacheType implements CacheRulesConfig interface
func (cr *CacheConfig) GetTtlForCacheType(cacheType models.CacheType) time.Duration {
	if cacheType == models.CacheTypeNone {
		return 0
	}

	if ttl, ok := cr.config.TTLDefaults[cacheType]; ok {
		return ttl
	}

	switch cacheType {
	case models.CacheTypeDefault:
		return cr.defaultTTL
	case models.CacheTypeShort:
		return DefaultShortTTL
	}
	return 0
}

// GetCacheTypeForOperation implements CacheRulesConfig interface.
// A rule for the operation name wins over a rule for the operation type.
func (cr *CacheConfig) GetCacheTypeForOperation(operationType, operationName string) models.CacheType {
	if operationName != "" {
		if cacheType, ok := cr.config.Operations[operationName]; ok {
			return cacheType
		}
	}

	if cacheType, ok := cr.config.OperationTypes[operationType]; ok {
		return cacheType
	}

	if cr.logger != nil {
		cr.logger.Debug("No cache rule for operation, using default",
			zap.String("operation_type", operationType),
			zap.String("operation_name", operationName))
	}
	return models.CacheTypeDefault
}

// HasOperationRules implements CacheRulesConfig interface
func (cr *CacheConfig) HasOperationRules() bool {
	return len(cr.config.Operations) > 0 || len(cr.config.OperationTypes) > 0
}

// GetAllOperations returns all operation names that have a rule
func (cr *CacheConfig) GetAllOperations() []string {
	operations := make([]string, 0, len(cr.config.Operations))
	for name := range cr.config.Operations {
		operations = append(operations, name)
	}
	return operations
}
