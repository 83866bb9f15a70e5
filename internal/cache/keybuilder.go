package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"gql-proxy-cache/internal/interfaces"
	"gql-proxy-cache/internal/models"
)

// DefaultKeyPrefix namespaces proxy entries inside a shared store
const DefaultKeyPrefix = "anilist:"

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl derives cache keys as prefix + hex(sha256(payload JSON))
type KeyBuilderImpl struct {
	prefix string
}

// NewKeyBuilder creates a new KeyBuilder instance. An empty prefix falls back to DefaultKeyPrefix.
func NewKeyBuilder(prefix string) interfaces.KeyBuilder {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &KeyBuilderImpl{prefix: prefix}
}

// Build creates a cache key for a single GraphQL request
func (kb *KeyBuilderImpl) Build(req *models.QueryRequest) (string, error) {
	if req == nil {
		return "", errors.New("request cannot be nil")
	}

	if req.Query == "" {
		return "", errors.New("request query cannot be empty")
	}

	// operationName is not part of the payload, so it never changes the key
	payload, err := req.Payload().Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	sum := sha256.Sum256(payload)
	return kb.prefix + hex.EncodeToString(sum[:]), nil
}
