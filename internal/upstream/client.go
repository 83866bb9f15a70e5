package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"gql-proxy-cache/internal/config"
	"gql-proxy-cache/internal/interfaces"
	"gql-proxy-cache/internal/metrics"
	"gql-proxy-cache/internal/models"
)

const defaultMaxResponseBytes = 10 << 20

// ErrInvalidBody is returned when the upstream replies with something other than JSON
var ErrInvalidBody = errors.New("upstream returned invalid JSON")

// ErrBodyTooLarge is returned when the upstream reply exceeds the configured limit
var ErrBodyTooLarge = errors.New("upstream response too large")

// StatusError is returned for non-2xx upstream replies
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Body)
}

// Ensure Client implements interfaces.Upstream
var _ interfaces.Upstream = (*Client)(nil)

// Client posts GraphQL payloads to a single upstream endpoint
type Client struct {
	url              string
	name             string
	maxResponseBytes int64
	httpClient       *http.Client
	logger           *zap.Logger
}

// NewClient creates an upstream client from config
func NewClient(cfg *config.UpstreamConfig, logger *zap.Logger) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}

	maxResponseBytes := cfg.MaxResponseBytes
	if maxResponseBytes <= 0 {
		maxResponseBytes = defaultMaxResponseBytes
	}

	return &Client{
		url:              cfg.URL,
		name:             cfg.Name,
		maxResponseBytes: maxResponseBytes,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.Timeout) * time.Millisecond,
		},
		logger: logger.With(zap.String("upstream", cfg.Name)),
	}
}

// Fetch posts {query, variables} and returns the compacted JSON reply
func (c *Client) Fetch(ctx context.Context, payload models.GraphQLPayload) (json.RawMessage, error) {
	start := time.Now()
	data, status, err := c.do(ctx, payload)

	category := metrics.CategorizeError(err, status, errors.Is(err, ErrInvalidBody))
	metrics.RecordUpstreamRequest(category, status, time.Since(start))

	if err != nil {
		c.logger.Debug("Upstream request failed",
			zap.Int("status", status),
			zap.String("error_type", string(category)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, err
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, payload models.GraphQLPayload) (json.RawMessage, int, error) {
	reqBytes, err := payload.Marshal()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxResponseBytes {
		return nil, resp.StatusCode, ErrBodyTooLarge
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &StatusError{StatusCode: resp.StatusCode, Body: truncate(body, 256)}
	}

	var compacted bytes.Buffer
	if err := json.Compact(&compacted, body); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	return compacted.Bytes(), resp.StatusCode, nil
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
