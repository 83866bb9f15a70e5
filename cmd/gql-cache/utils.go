package main

import (
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"

	"gql-proxy-cache/internal/config"
)

const defaultKeyDBURL = "redis://keydb:6379"

// GetKeyDBURL returns KeyDB URL with the following priority:
// 1. REDIS_URL environment variable
// 2. KEYDB_URL environment variable
// 3. CACHE_KEYDB_URL_FILE file content
// 4. l2.url from the config file
// 5. Default value
func GetKeyDBURL(cfg *config.Config, logger *zap.Logger) string {
	for _, name := range []string{"REDIS_URL", "KEYDB_URL"} {
		if keydbURL := os.Getenv(name); keydbURL != "" {
			logger.Debug("Using KeyDB URL from environment variable", zap.String("variable", name))
			return keydbURL
		}
	}

	// Configurable connection file path
	connectionFile := os.Getenv("CACHE_KEYDB_URL_FILE")
	if connectionFile == "" {
		connectionFile = "/app/.keydb-url"
	}

	if content, err := os.ReadFile(connectionFile); err == nil {
		keydbURL := strings.TrimSpace(string(content))
		if len(keydbURL) > 0 {
			logger.Debug("Using KeyDB URL from connection file", zap.String("file", connectionFile))
			return keydbURL
		}
	} else {
		logger.Debug("KeyDB connection file not found or empty", zap.String("file", connectionFile))
	}

	if cfg != nil && cfg.L2.URL != "" {
		logger.Debug("Using KeyDB URL from config file")
		return cfg.L2.URL
	}

	logger.Debug("Using default KeyDB URL")
	return defaultKeyDBURL
}

// resolveOptionalPath returns explicit when set, otherwise fallback if that file exists, otherwise ""
func resolveOptionalPath(explicit, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(fallback); err == nil {
		return fallback
	}
	return ""
}

// redactURL hides credentials before a URL is logged
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}
