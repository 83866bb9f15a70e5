package cache_rules

import (
	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/dgraph-io/gqlparser/v2/parser"
	"go.uber.org/zap"

	"gql-proxy-cache/internal/interfaces"
	"gql-proxy-cache/internal/models"
)

// Classifier implements the CacheRulesClassifier interface
type Classifier struct {
	logger    *zap.Logger
	configTTL interfaces.CacheRulesConfig
}

// Ensure Classifier implements the CacheRulesClassifier interface
var _ interfaces.CacheRulesClassifier = (*Classifier)(nil)

// NewClassifier creates a new Classifier instance
func NewClassifier(logger *zap.Logger, configTTL interfaces.CacheRulesConfig) *Classifier {
	return &Classifier{
		logger:    logger,
		configTTL: configTTL,
	}
}

// GetTtl implements CacheRulesClassifier interface.
// Without operation rules the query is not parsed and the default TTL applies.
func (c *Classifier) GetTtl(request *models.QueryRequest) models.CacheInfo {
	if request == nil || request.Query == "" {
		return models.CacheInfo{TTL: 0, CacheType: models.CacheTypeNone}
	}

	cacheType := models.CacheTypeDefault
	if c.configTTL.HasOperationRules() {
		cacheType = c.classify(request)
	}

	if cacheType == models.CacheTypeNone {
		return models.CacheInfo{TTL: 0, CacheType: models.CacheTypeNone}
	}

	ttl := c.configTTL.GetTtlForCacheType(cacheType)
	if ttl == 0 {
		return models.CacheInfo{TTL: 0, CacheType: models.CacheTypeNone}
	}

	return models.CacheInfo{TTL: ttl, CacheType: cacheType}
}

// classify resolves the cache type of the operation the request executes
func (c *Classifier) classify(request *models.QueryRequest) models.CacheType {
	doc, gqlErr := parser.ParseQuery(&ast.Source{Input: request.Query})
	if gqlErr != nil {
		// The upstream reports invalid queries itself
		c.logger.Debug("Failed to parse GraphQL query, using default cache type", zap.Error(gqlErr))
		return models.CacheTypeDefault
	}

	op := selectOperation(doc, request.OperationName)
	if op == nil {
		c.logger.Debug("No executable operation selected, using default cache type",
			zap.String("operation_name", request.OperationName))
		return models.CacheTypeDefault
	}

	return c.configTTL.GetCacheTypeForOperation(string(op.Operation), op.Name)
}

// selectOperation picks the operation named by operationName, or the only operation in the document
func selectOperation(doc *ast.QueryDocument, operationName string) *ast.OperationDefinition {
	if operationName == "" {
		if len(doc.Operations) == 1 {
			return doc.Operations[0]
		}
		return nil
	}

	for _, op := range doc.Operations {
		if op.Name == operationName {
			return op
		}
	}
	return nil
}
