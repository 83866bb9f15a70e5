package cache_rules

import (
	"time"

	"gql-proxy-cache/internal/models"
)

// TTLDefaults represents TTL settings for different cache types
type TTLDefaults map[models.CacheType]time.Duration

// CacheRulesConfig represents the cache rules configuration
type CacheRulesConfig struct {
	TTLDefaults    TTLDefaults                 `yaml:"ttl_defaults"`
	OperationTypes map[string]models.CacheType `yaml:"operation_types"`
	Operations     map[string]models.CacheType `yaml:"operations"`
}
