package models

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheType represents the caching class assigned to a GraphQL operation
type CacheType string

const (
	CacheTypeDefault CacheType = "default"
	CacheTypeShort   CacheType = "short"
	CacheTypeNone    CacheType = "none"
)

// IsValid reports whether c is one of the known cache types
func (c CacheType) IsValid() bool {
	switch c {
	case CacheTypeDefault, CacheTypeShort, CacheTypeNone:
		return true
	}
	return false
}

// UnmarshalYAML implements custom YAML unmarshaling for CacheType
func (c *CacheType) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	if !CacheType(str).IsValid() {
		return fmt.Errorf("invalid cache type '%s': must be one of 'default', 'short', 'none'", str)
	}
	*c = CacheType(str)
	return nil
}

// CacheInfo contains cache configuration information
type CacheInfo struct {
	TTL       time.Duration `json:"ttl"`
	CacheType CacheType     `json:"cache_type"`
}

// CacheStatus is reported to clients in the X-Cache header
type CacheStatus string

const (
	CacheStatusHit    CacheStatus = "HIT"
	CacheStatusMiss   CacheStatus = "MISS"
	CacheStatusBypass CacheStatus = "BYPASS"
)

// CacheLevel identifies which cache level served a hit
type CacheLevel string

const (
	CacheLevelL1      CacheLevel = "l1"
	CacheLevelL2      CacheLevel = "l2"
	CacheLevelUnknown CacheLevel = "unknown"
	CacheLevelMiss    CacheLevel = "miss"
)

// CacheResult is the outcome of a level-aware lookup
type CacheResult struct {
	Data  []byte
	Found bool
	Level CacheLevel
}
