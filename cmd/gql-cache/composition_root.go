package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gql-proxy-cache/internal/cache"
	"gql-proxy-cache/internal/cache/l1"
	"gql-proxy-cache/internal/cache/l2"
	"gql-proxy-cache/internal/cache/multi"
	"gql-proxy-cache/internal/cache/noop"
	"gql-proxy-cache/internal/cache/service"
	"gql-proxy-cache/internal/cache_rules"
	"gql-proxy-cache/internal/config"
	"gql-proxy-cache/internal/httpserver"
	"gql-proxy-cache/internal/interfaces"
	"gql-proxy-cache/internal/scheduler"
	"gql-proxy-cache/internal/upstream"
)

const (
	defaultConfigPath = "/app/cache_config.yaml"
	defaultRulesPath  = "/app/cache_rules.yaml"
	l2MetricsInterval = 30 * time.Second
)

// CompositionRoot holds all application dependencies and provides a centralized
// place for dependency injection and service initialization.
type CompositionRoot struct {
	// Configuration
	Config     *config.Config
	Logger     *zap.Logger
	LogLevel   zap.AtomicLevel
	CacheRules interfaces.CacheRulesClassifier

	// Cache components
	L1Cache    interfaces.Cache
	L2Cache    interfaces.Cache
	Cache      interfaces.Cache
	KeyBuilder interfaces.KeyBuilder

	// Upstream
	Upstream interfaces.Upstream

	// Services
	ProxyService *service.ProxyService
	HTTPServer   *httpserver.Server

	l2MetricsScheduler *scheduler.Scheduler
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Configuration (also sets the log level)
// 3. Cache rules
// 4. Cache components (L1, L2, MultiCache, KeyBuilder)
// 5. Upstream client and ProxyService
// 6. HTTP Server
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	// Initialize logger first
	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Load configuration
	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Load cache rules
	if err := root.loadCacheRules(); err != nil {
		return nil, fmt.Errorf("failed to load cache rules: %w", err)
	}

	// Initialize cache components
	if err := root.initCacheComponents(); err != nil {
		_ = root.Cleanup()
		return nil, fmt.Errorf("failed to initialize cache components: %w", err)
	}

	// Initialize services
	if err := root.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Initialize HTTP server
	if err := root.initHTTPServer(); err != nil {
		return nil, fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	return root, nil
}

// initLogger initializes the application logger at info level
func (r *CompositionRoot) initLogger() error {
	cfg := zap.NewProductionConfig()
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	r.Logger = logger
	r.LogLevel = cfg.Level
	return nil
}

// loadConfig loads the application configuration
func (r *CompositionRoot) loadConfig() error {
	configPath := resolveOptionalPath(os.Getenv("CACHE_CONFIG_FILE"), defaultConfigPath)

	cfg, err := config.LoadConfig(configPath, r.Logger)
	if err != nil {
		return err
	}

	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	r.LogLevel.SetLevel(level)

	r.Config = cfg
	return nil
}

// loadCacheRules loads the optional cache rules file; without it every query gets cache.ttl
func (r *CompositionRoot) loadCacheRules() error {
	rulesPath := resolveOptionalPath(os.Getenv("CACHE_RULES_FILE"), defaultRulesPath)

	var rulesConfig interfaces.CacheRulesConfig
	if rulesPath == "" {
		r.Logger.Info("No cache rules file, caching every query with default TTL",
			zap.Duration("ttl", r.Config.GetCacheTTL()))
		rulesConfig = cache_rules.NewCacheConfig(nil, r.Config.GetCacheTTL(), r.Logger)
	} else {
		loaded, err := cache_rules.LoadCacheRulesConfig(rulesPath, r.Config.GetCacheTTL(), r.Logger)
		if err != nil {
			return err
		}
		rulesConfig = loaded
	}

	// Create classifier from the loaded config
	r.CacheRules = cache_rules.NewClassifier(r.Logger, rulesConfig)
	return nil
}

// initCacheComponents initializes all cache-related components
func (r *CompositionRoot) initCacheComponents() error {
	if err := r.initL1Cache(); err != nil {
		return fmt.Errorf("failed to initialize L1 cache: %w", err)
	}

	if err := r.initL2Cache(); err != nil {
		return fmt.Errorf("failed to initialize L2 cache: %w", err)
	}

	if r.L1Cache != nil {
		r.Cache = multi.NewMultiCache(
			[]interfaces.Cache{r.L1Cache, r.L2Cache},
			r.Logger,
			r.Config.MultiCache.EnablePropagation,
			r.Config.GetL1TTL(),
		)
	} else {
		r.Cache = r.L2Cache
	}

	r.KeyBuilder = cache.NewKeyBuilder(r.Config.Cache.KeyPrefix)

	return nil
}

// initL1Cache initializes the optional in-process cache
func (r *CompositionRoot) initL1Cache() error {
	if !r.Config.L1.Enabled {
		r.Logger.Info("L1 cache disabled")
		return nil
	}

	var (
		l1Cache interfaces.Cache
		err     error
	)
	switch r.Config.L1.Backend {
	case "lru":
		l1Cache, err = l1.NewLRUCache(r.Config.L1.MaxEntries, r.Config.GetL1TTL(), r.Logger)
	default:
		l1Cache, err = l1.NewBigCache(r.Config.L1.Size, r.Config.GetL1TTL(), r.Logger)
	}
	if err != nil {
		return err
	}

	r.L1Cache = l1Cache
	r.Logger.Info("L1 cache initialized",
		zap.String("backend", r.Config.L1.Backend),
		zap.Int("size_mb", r.Config.L1.Size),
		zap.Int("max_entries", r.Config.L1.MaxEntries),
		zap.Duration("ttl", r.Config.GetL1TTL()))
	return nil
}

// initL2Cache initializes the KeyDB cache. An unreachable server at boot is not
// fatal: the client reconnects on demand and failed commands count as misses.
func (r *CompositionRoot) initL2Cache() error {
	if !r.Config.L2.Enabled {
		r.L2Cache = noop.NewNoOpCache()
		r.Logger.Info("KeyDB (L2) disabled")
		return nil
	}

	keydbURL := GetKeyDBURL(r.Config, r.Logger)

	keydbClient, err := l2.NewRedisKeyDbClient(r.Config, keydbURL, r.Logger)
	if err != nil {
		return fmt.Errorf("failed to create KeyDB client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.Config.GetConnectTimeout())
	defer cancel()
	if err := keydbClient.Ping(ctx).Err(); err != nil {
		r.Logger.Warn("KeyDB unreachable at startup, serving misses until it recovers",
			zap.String("keydb_url", redactURL(keydbURL)),
			zap.Error(err))
	} else {
		r.Logger.Info("Connected to KeyDB", zap.String("keydb_url", redactURL(keydbURL)))
	}

	keydbCache := l2.NewKeyDBCache(r.Config, keydbClient, r.Logger)
	r.L2Cache = keydbCache
	r.l2MetricsScheduler = scheduler.New(l2MetricsInterval, keydbCache.UpdateMetrics)
	r.l2MetricsScheduler.Start()
	return nil
}

// initServices initializes application services
func (r *CompositionRoot) initServices() error {
	r.Upstream = upstream.NewClient(&r.Config.Upstream, r.Logger)

	r.ProxyService = service.NewProxyService(
		r.Cache,
		r.KeyBuilder,
		r.Upstream,
		r.CacheRules,
		service.Options{
			CoalesceMisses:  r.Config.Proxy.CoalesceMisses,
			UpstreamTimeout: r.Config.GetUpstreamTimeout(),
		},
		r.Logger,
	)

	r.Logger.Info("Proxy service initialized",
		zap.String("upstream", r.Config.Upstream.URL),
		zap.Duration("cache_ttl", r.Config.GetCacheTTL()),
		zap.Bool("coalesce_misses", r.Config.Proxy.CoalesceMisses))

	return nil
}

// initHTTPServer initializes the HTTP server
func (r *CompositionRoot) initHTTPServer() error {
	r.HTTPServer = httpserver.NewServer(
		r.ProxyService,
		&r.Config.Server,
		r.Config.Upstream.Name,
		r.Logger,
	)

	return nil
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var errs []error

	if r.l2MetricsScheduler != nil {
		r.l2MetricsScheduler.Stop()
	}

	// Close L1 cache
	if bigCache, ok := r.L1Cache.(*l1.BigCache); ok {
		if err := bigCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close L1 cache: %w", err))
		}
	}

	// Close L2 cache
	if keydbCache, ok := r.L2Cache.(*l2.KeyDBCache); ok {
		if err := keydbCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close L2 cache: %w", err))
		}
	}

	// Sync logger
	if r.Logger != nil {
		if err := r.Logger.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("failed to sync logger: %w", err))
		}
	}

	return errors.Join(errs...)
}

// GetPort returns the TCP port the server listens on
func (r *CompositionRoot) GetPort() string {
	return r.Config.Server.Port
}
