package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultUpstreamURL  = "https://graphql.anilist.co"
	DefaultUpstreamName = "AniList"
	DefaultKeyPrefix    = "anilist:"
	DefaultCacheTTL     = 86400 // seconds
	DefaultMaxBodyBytes = 1 << 20
)

// Config represents the main configuration structure
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Cache      CacheConfig      `yaml:"cache"`
	L1         L1Config         `yaml:"l1"`
	L2         L2Config         `yaml:"l2"`
	MultiCache MultiCacheConfig `yaml:"multi_cache"`
	Proxy      ProxyConfig      `yaml:"proxy"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig configures the public HTTP listener. Timeouts are in milliseconds.
type ServerConfig struct {
	Port         string `yaml:"port" validate:"required,numeric"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" validate:"gt=0"`
	ReadTimeout  int    `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout int    `yaml:"write_timeout" validate:"gte=0"`
	IdleTimeout  int    `yaml:"idle_timeout" validate:"gte=0"`
}

// UpstreamConfig configures the proxied GraphQL endpoint
type UpstreamConfig struct {
	URL              string `yaml:"url" validate:"required,url"`
	Name             string `yaml:"name" validate:"required"`
	Timeout          int    `yaml:"timeout" validate:"gt=0"` // milliseconds
	MaxResponseBytes int64  `yaml:"max_response_bytes" validate:"gt=0"`
}

// CacheConfig holds the response cache lifetime and key namespace
type CacheConfig struct {
	TTL       int    `yaml:"ttl" validate:"gt=0"` // seconds
	KeyPrefix string `yaml:"key_prefix"`
}

// L1Config configures the optional in-process cache level
type L1Config struct {
	Enabled    bool   `yaml:"enabled"`
	Backend    string `yaml:"backend" validate:"oneof=bigcache lru"`
	Size       int    `yaml:"size" validate:"gt=0"`        // MB, bigcache only
	MaxEntries int    `yaml:"max_entries" validate:"gt=0"` // lru only
	TTL        int    `yaml:"ttl" validate:"gt=0"`         // seconds, upper bound for entries
}

// L2Config configures the shared KeyDB/Redis cache level
type L2Config struct {
	Enabled    bool             `yaml:"enabled"`
	URL        string           `yaml:"url"`
	TLS        bool             `yaml:"tls"`
	Connection ConnectionConfig `yaml:"connection"`
	Keepalive  KeepaliveConfig  `yaml:"keepalive"`
}

// ConnectionConfig holds L2 timeouts in milliseconds
type ConnectionConfig struct {
	ConnectTimeout int `yaml:"connect_timeout" validate:"gt=0"`
	SendTimeout    int `yaml:"send_timeout" validate:"gt=0"`
	ReadTimeout    int `yaml:"read_timeout" validate:"gt=0"`
}

// KeepaliveConfig holds L2 pool settings
type KeepaliveConfig struct {
	PoolSize       int `yaml:"pool_size" validate:"gt=0"`
	MaxIdleTimeout int `yaml:"max_idle_timeout" validate:"gt=0"` // milliseconds
}

// MultiCacheConfig configures level propagation
type MultiCacheConfig struct {
	EnablePropagation bool `yaml:"enable_propagation"`
}

// ProxyConfig configures request handling
type ProxyConfig struct {
	CoalesceMisses bool `yaml:"coalesce_misses"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

var validate = validator.New()

// LoadConfig loads configuration from file path. An empty path yields defaults.
// Environment overrides are applied on top and the result is validated.
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	// L2 is the primary store, so it stays on unless the file disables it
	config := Config{L2: L2Config{Enabled: true}}

	if configPath != "" {
		logger.Info("Loading configuration", zap.String("path", configPath))

		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer func() { _ = file.Close() }()

		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode YAML config: %w", err)
		}
	} else {
		logger.Info("No configuration file, using defaults")
	}

	config.applyDefaults()

	if err := config.applyEnv(os.Getenv); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks struct constraints
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "3000"
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30000
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30000
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60000
	}

	if c.Upstream.URL == "" {
		c.Upstream.URL = DefaultUpstreamURL
	}
	if c.Upstream.Name == "" {
		c.Upstream.Name = DefaultUpstreamName
	}
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = 10000
	}
	if c.Upstream.MaxResponseBytes == 0 {
		c.Upstream.MaxResponseBytes = 10 << 20
	}

	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = DefaultKeyPrefix
	}

	if c.L1.Backend == "" {
		c.L1.Backend = "bigcache"
	}
	if c.L1.Size == 0 {
		c.L1.Size = 100
	}
	if c.L1.MaxEntries == 0 {
		c.L1.MaxEntries = 10000
	}
	if c.L1.TTL == 0 {
		c.L1.TTL = 60
	}

	if c.L2.Connection.ConnectTimeout == 0 {
		c.L2.Connection.ConnectTimeout = 1000
	}
	if c.L2.Connection.SendTimeout == 0 {
		c.L2.Connection.SendTimeout = 1000
	}
	if c.L2.Connection.ReadTimeout == 0 {
		c.L2.Connection.ReadTimeout = 1000
	}
	if c.L2.Keepalive.PoolSize == 0 {
		c.L2.Keepalive.PoolSize = 10
	}
	if c.L2.Keepalive.MaxIdleTimeout == 0 {
		c.L2.Keepalive.MaxIdleTimeout = 10000
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// applyEnv overrides file values with environment variables
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("UPSTREAM_URL"); v != "" {
		c.Upstream.URL = v
	}
	if v := getenv("CACHE_TTL_SECONDS"); v != "" {
		ttl, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CACHE_TTL_SECONDS: %w", err)
		}
		c.Cache.TTL = ttl
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// GetConnectTimeout returns the L2 connect timeout
func (c *Config) GetConnectTimeout() time.Duration {
	return time.Duration(c.L2.Connection.ConnectTimeout) * time.Millisecond
}

// GetSendTimeout returns the L2 write timeout
func (c *Config) GetSendTimeout() time.Duration {
	return time.Duration(c.L2.Connection.SendTimeout) * time.Millisecond
}

// GetReadTimeout returns the L2 read timeout
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.L2.Connection.ReadTimeout) * time.Millisecond
}

// GetMaxIdleTimeout returns the L2 idle connection timeout
func (c *Config) GetMaxIdleTimeout() time.Duration {
	return time.Duration(c.L2.Keepalive.MaxIdleTimeout) * time.Millisecond
}

// GetCacheTTL returns the lifetime of cached upstream responses
func (c *Config) GetCacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}

// GetL1TTL returns the upper bound for L1 entry lifetime
func (c *Config) GetL1TTL() time.Duration {
	return time.Duration(c.L1.TTL) * time.Second
}

// GetUpstreamTimeout returns the bound on a single upstream call
func (c *Config) GetUpstreamTimeout() time.Duration {
	return time.Duration(c.Upstream.Timeout) * time.Millisecond
}

// GetTimeouts returns read, write and idle timeouts of the HTTP server
func (c *ServerConfig) GetTimeouts() (read, write, idle time.Duration) {
	return time.Duration(c.ReadTimeout) * time.Millisecond,
		time.Duration(c.WriteTimeout) * time.Millisecond,
		time.Duration(c.IdleTimeout) * time.Millisecond
}
