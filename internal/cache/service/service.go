package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"gql-proxy-cache/internal/interfaces"
	"gql-proxy-cache/internal/metrics"
	"gql-proxy-cache/internal/models"
)

var (
	// ErrBadRequest is returned when the request has no query
	ErrBadRequest = errors.New("missing query")
	// ErrUpstream wraps every failure to obtain a response from the upstream
	ErrUpstream = errors.New("upstream request failed")
)

const defaultUpstreamTimeout = 10 * time.Second

// Options tunes request handling
type Options struct {
	// CoalesceMisses shares one upstream fetch between concurrent misses on the same key
	CoalesceMisses bool
	// UpstreamTimeout bounds a single upstream call
	UpstreamTimeout time.Duration
}

// ProxyService serves GraphQL requests from cache, falling back to the upstream
type ProxyService struct {
	cache           interfaces.Cache
	keyBuilder      interfaces.KeyBuilder
	upstream        interfaces.Upstream
	cacheClassifier interfaces.CacheRulesClassifier
	opts            Options
	group           singleflight.Group
	logger          *zap.Logger
}

// NewProxyService creates a new proxy service instance
func NewProxyService(
	cache interfaces.Cache,
	keyBuilder interfaces.KeyBuilder,
	upstream interfaces.Upstream,
	cacheClassifier interfaces.CacheRulesClassifier,
	opts Options,
	logger *zap.Logger,
) *ProxyService {
	if opts.UpstreamTimeout <= 0 {
		opts.UpstreamTimeout = defaultUpstreamTimeout
	}

	return &ProxyService{
		cache:           cache,
		keyBuilder:      keyBuilder,
		upstream:        upstream,
		cacheClassifier: cacheClassifier,
		opts:            opts,
		logger:          logger,
	}
}

// Handle answers a query from cache when possible, otherwise fetches it upstream and caches the result
func (s *ProxyService) Handle(ctx context.Context, req *models.QueryRequest) (*models.ProxyResponse, error) {
	if req == nil || req.Query == "" {
		return nil, ErrBadRequest
	}

	key, err := s.keyBuilder.Build(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	cacheInfo := s.cacheClassifier.GetTtl(req)
	cacheType := string(cacheInfo.CacheType)
	metrics.RecordCacheRequest(cacheType)

	if cacheInfo.TTL <= 0 {
		data, err := s.fetch(ctx, req.Payload())
		if err != nil {
			return nil, err
		}
		return &models.ProxyResponse{Cached: false, Data: data, Status: models.CacheStatusBypass}, nil
	}

	if data, ok := s.lookup(key, cacheType); ok {
		return &models.ProxyResponse{Cached: true, Data: data, Status: models.CacheStatusHit}, nil
	}

	var data json.RawMessage
	if s.opts.CoalesceMisses {
		v, err, shared := s.group.Do(key, func() (interface{}, error) {
			return s.fetchAndStore(ctx, key, req.Payload(), cacheInfo.TTL)
		})
		if shared {
			metrics.RecordCoalescedRequest()
		}
		if err != nil {
			return nil, err
		}
		data = v.(json.RawMessage)
	} else {
		data, err = s.fetchAndStore(ctx, key, req.Payload(), cacheInfo.TTL)
		if err != nil {
			return nil, err
		}
	}

	return &models.ProxyResponse{Cached: false, Data: data, Status: models.CacheStatusMiss}, nil
}

// lookup returns a cached body if present and well-formed
func (s *ProxyService) lookup(key, cacheType string) (json.RawMessage, bool) {
	timer := metrics.TimeCacheOperation("get")
	defer timer()

	var result models.CacheResult
	if levelAware, ok := s.cache.(interfaces.LevelAwareCache); ok {
		result = levelAware.GetWithLevel(key)
	} else {
		data, found := s.cache.Get(key)
		result = models.CacheResult{Data: data, Found: found, Level: models.CacheLevelUnknown}
	}

	if !result.Found {
		metrics.RecordCacheMiss(cacheType)
		return nil, false
	}

	if !json.Valid(result.Data) {
		s.logger.Warn("Discarding malformed cached response", zap.String("key", key), zap.String("level", string(result.Level)))
		metrics.RecordCacheError(string(result.Level), "decode")
		metrics.RecordCacheMiss(cacheType)
		return nil, false
	}

	metrics.RecordCacheHit(cacheType, string(result.Level))
	return json.RawMessage(result.Data), true
}

// fetchAndStore fetches from upstream and writes the body to cache.
// Write failures are handled inside the cache levels and never fail the request.
func (s *ProxyService) fetchAndStore(ctx context.Context, key string, payload models.GraphQLPayload, ttl time.Duration) (json.RawMessage, error) {
	data, err := s.fetch(ctx, payload)
	if err != nil {
		return nil, err
	}

	timer := metrics.TimeCacheOperation("set")
	s.cache.Set(key, data, ttl)
	timer()

	return data, nil
}

// fetch calls the upstream detached from client cancellation but bounded by the upstream timeout
func (s *ProxyService) fetch(ctx context.Context, payload models.GraphQLPayload) (json.RawMessage, error) {
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.UpstreamTimeout)
	defer cancel()

	data, err := s.upstream.Fetch(fetchCtx, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return data, nil
}
