package cache_rules

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"gql-proxy-cache/internal/interfaces"
)

var operationTypes = map[string]bool{
	"query":        true,
	"mutation":     true,
	"subscription": true,
}

// LoadCacheRulesConfig loads cache rules from a YAML file and returns a config reader
func LoadCacheRulesConfig(rulesPath string, defaultTTL time.Duration, logger *zap.Logger) (interfaces.CacheRulesConfig, error) {
	logger.Info("Loading cache rules config", zap.String("path", rulesPath))

	file, err := os.Open(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache rules file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config CacheRulesConfig
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML cache rules: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("cache rules validation failed: %w", err)
	}

	logger.Info("Cache rules config loaded successfully",
		zap.Int("operation_rules", len(config.Operations)),
		zap.Int("operation_type_rules", len(config.OperationTypes)))

	return NewCacheConfig(&config, defaultTTL, logger), nil
}

// validateConfig validates the cache rules configuration structure
func validateConfig(config *CacheRulesConfig) error {
	if len(config.TTLDefaults) == 0 && len(config.OperationTypes) == 0 && len(config.Operations) == 0 {
		return fmt.Errorf("cache rules file defines no ttl_defaults, operation_types or operations")
	}

	for cacheType, ttl := range config.TTLDefaults {
		if ttl < 0 {
			return fmt.Errorf("ttl_defaults.%s must not be negative", cacheType)
		}
	}

	for operationType := range config.OperationTypes {
		if !operationTypes[operationType] {
			return fmt.Errorf("unknown operation type '%s': must be one of 'query', 'mutation', 'subscription'", operationType)
		}
	}

	for name := range config.Operations {
		if name == "" {
			return fmt.Errorf("operations contains an empty operation name")
		}
	}

	return nil
}
