package cache_rules

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"gql-proxy-cache/internal/models"
)

func TestNewCacheConfig_NilConfig(t *testing.T) {
	config := NewCacheConfig(nil, time.Hour, zaptest.NewLogger(t))

	assert.NotNil(t, config)
	assert.False(t, config.HasOperationRules())
	assert.Equal(t, time.Hour, config.GetTtlForCacheType(models.CacheTypeDefault))
}

func TestGetTtlForCacheType(t *testing.T) {
	tests := []struct {
		name      string
		defaults  TTLDefaults
		cacheType models.CacheType
		expected  time.Duration
	}{
		{"default falls back to cache ttl", nil, models.CacheTypeDefault, 86400 * time.Second},
		{"short falls back to built-in", nil, models.CacheTypeShort, DefaultShortTTL},
		{"none is always zero", TTLDefaults{models.CacheTypeNone: time.Hour}, models.CacheTypeNone, 0},
		{"default overridden", TTLDefaults{models.CacheTypeDefault: time.Hour}, models.CacheTypeDefault, time.Hour},
		{"short overridden", TTLDefaults{models.CacheTypeShort: 30 * time.Second}, models.CacheTypeShort, 30 * time.Second},
		{"unknown type", nil, models.CacheType("forever"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewCacheConfig(&CacheRulesConfig{TTLDefaults: tt.defaults}, 86400*time.Second, zaptest.NewLogger(t))
			assert.Equal(t, tt.expected, config.GetTtlForCacheType(tt.cacheType))
		})
	}
}

func TestGetCacheTypeForOperation(t *testing.T) {
	config := NewCacheConfig(&CacheRulesConfig{
		OperationTypes: map[string]models.CacheType{
			"mutation": models.CacheTypeNone,
			"query":    models.CacheTypeDefault,
		},
		Operations: map[string]models.CacheType{
			"Trending":   models.CacheTypeShort,
			"ViewerSafe": models.CacheTypeDefault,
		},
	}, time.Hour, zaptest.NewLogger(t))

	tests := []struct {
		name          string
		operationType string
		operationName string
		expected      models.CacheType
	}{
		{"name rule", "query", "Trending", models.CacheTypeShort},
		{"name rule wins over type rule", "mutation", "ViewerSafe", models.CacheTypeDefault},
		{"type rule", "mutation", "Save", models.CacheTypeNone},
		{"anonymous uses type rule", "mutation", "", models.CacheTypeNone},
		{"no rule", "subscription", "OnActivity", models.CacheTypeDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, config.GetCacheTypeForOperation(tt.operationType, tt.operationName))
		})
	}
}

func TestHasOperationRules(t *testing.T) {
	logger := zaptest.NewLogger(t)

	assert.False(t, NewCacheConfig(&CacheRulesConfig{
		TTLDefaults: TTLDefaults{models.CacheTypeShort: time.Minute},
	}, time.Hour, logger).HasOperationRules())

	assert.True(t, NewCacheConfig(&CacheRulesConfig{
		OperationTypes: map[string]models.CacheType{"mutation": models.CacheTypeNone},
	}, time.Hour, logger).HasOperationRules())

	assert.True(t, NewCacheConfig(&CacheRulesConfig{
		Operations: map[string]models.CacheType{"Trending": models.CacheTypeShort},
	}, time.Hour, logger).HasOperationRules())
}

func TestGetAllOperations(t *testing.T) {
	config := NewCacheConfig(&CacheRulesConfig{
		Operations: map[string]models.CacheType{
			"Trending": models.CacheTypeShort,
			"Viewer":   models.CacheTypeNone,
		},
	}, time.Hour, nil)

	operations := config.GetAllOperations()
	sort.Strings(operations)

	assert.Equal(t, []string{"Trending", "Viewer"}, operations)
}
