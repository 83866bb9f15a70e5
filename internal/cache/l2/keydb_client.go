package l2

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"gql-proxy-cache/internal/config"
	"gql-proxy-cache/internal/interfaces"
)

// Ensure RedisKeyDbClient implements interfaces.KeyDbClient
var _ interfaces.KeyDbClient = (*RedisKeyDbClient)(nil)

// RedisKeyDbClient wraps redis.Client to implement KeyDbClient interface
type RedisKeyDbClient struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisKeyDbClient creates a client for KeyDB/Redis at keydbURL.
// No connection is made here; go-redis dials lazily and redials after failures.
func NewRedisKeyDbClient(cfg *config.Config, keydbURL string, logger *zap.Logger) (*RedisKeyDbClient, error) {
	opts, err := buildOptions(cfg, keydbURL)
	if err != nil {
		return nil, err
	}

	logger.Debug("KeyDB client created",
		zap.String("address", opts.Addr),
		zap.Bool("tls", opts.TLSConfig != nil),
		zap.Duration("connect_timeout", cfg.GetConnectTimeout()),
		zap.Int("pool_size", cfg.L2.Keepalive.PoolSize))

	return &RedisKeyDbClient{
		client: redis.NewClient(opts),
		logger: logger,
	}, nil
}

// buildOptions parses redis:// and rediss:// URLs and applies pool and timeout settings
func buildOptions(cfg *config.Config, keydbURL string) (*redis.Options, error) {
	opts, err := redis.ParseURL(keydbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse KeyDB URL: %w", err)
	}

	if cfg.L2.TLS && opts.TLSConfig == nil {
		host, _, err := net.SplitHostPort(opts.Addr)
		if err != nil {
			host = opts.Addr
		}
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: host,
		}
	}

	opts.DialTimeout = cfg.GetConnectTimeout()
	opts.ReadTimeout = cfg.GetReadTimeout()
	opts.WriteTimeout = cfg.GetSendTimeout()
	opts.PoolSize = cfg.L2.Keepalive.PoolSize
	opts.IdleTimeout = cfg.GetMaxIdleTimeout()

	return opts, nil
}

// Get retrieves a value by key
func (r *RedisKeyDbClient) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.client.Get(ctx, key)
}

// Set stores a value with expiration
func (r *RedisKeyDbClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return r.client.Set(ctx, key, value, expiration)
}

// Del deletes one or more keys
func (r *RedisKeyDbClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return r.client.Del(ctx, keys...)
}

// DBSize returns the key count of the selected database
func (r *RedisKeyDbClient) DBSize(ctx context.Context) *redis.IntCmd {
	return r.client.DBSize(ctx)
}

// Ping tests connectivity
func (r *RedisKeyDbClient) Ping(ctx context.Context) *redis.StatusCmd {
	return r.client.Ping(ctx)
}

// Close closes the client connection
func (r *RedisKeyDbClient) Close() error {
	return r.client.Close()
}
