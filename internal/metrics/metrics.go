package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Proxy outcome per request: hit, miss, bypass, bad_request, error
	ProxyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_requests_total",
			Help: "Total number of proxy requests by outcome",
		},
		[]string{"status"},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Total number of cache requests",
		},
		[]string{"cache_type"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type", "level"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// kind: decode, encode, read, write, connect
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of cache errors",
		},
		[]string{"level", "kind"},
	)

	CoalescedRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coalesced_requests_total",
			Help: "Number of cache misses that shared another request's upstream fetch",
		},
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Duration of cache operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// cardinality: error_type (5) x status_code (~20)
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of requests forwarded to the upstream GraphQL API",
		},
		[]string{"error_type", "status_code"},
	)

	UpstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of upstream GraphQL requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	// L1 capacity metrics only (if L1 is in-memory)
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_capacity_bytes",
			Help: "L1 cache capacity in bytes",
		},
		[]string{"level"},
	)

	CacheUsed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_used_bytes",
			Help: "L1 cache used space in bytes",
		},
		[]string{"level"},
	)

	CacheKeys = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_keys",
			Help: "Number of keys held by a cache level",
		},
		[]string{"level"},
	)
)

// RecordProxyRequest records the outcome of a proxy request
func RecordProxyRequest(status string) {
	ProxyRequests.WithLabelValues(status).Inc()
}

// RecordCacheRequest records a cache request
func RecordCacheRequest(cacheType string) {
	CacheRequests.WithLabelValues(cacheType).Inc()
}

// RecordCacheHit records a cache hit at the given level
func RecordCacheHit(cacheType, level string) {
	CacheHits.WithLabelValues(cacheType, level).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(cacheType string) {
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordCacheError records a cache error with level and kind
func RecordCacheError(level, kind string) {
	CacheErrors.WithLabelValues(level, kind).Inc()
}

// RecordCoalescedRequest records a miss served by a shared upstream fetch
func RecordCoalescedRequest() {
	CoalescedRequests.Inc()
}

// RecordUpstreamRequest records an upstream call with its categorized result
func RecordUpstreamRequest(category ErrorCategory, httpStatus int, duration time.Duration) {
	statusCode := "none"
	if httpStatus != 0 {
		statusCode = strconv.Itoa(httpStatus)
	}
	UpstreamRequests.WithLabelValues(string(category), statusCode).Inc()
	UpstreamDuration.Observe(duration.Seconds())
}

// UpdateL1CacheCapacity updates L1 cache capacity metrics only
func UpdateL1CacheCapacity(capacity, used int64) {
	CacheCapacity.WithLabelValues("l1").Set(float64(capacity))
	CacheUsed.WithLabelValues("l1").Set(float64(used))
}

// UpdateCacheKeys updates the number of keys in a cache level
func UpdateCacheKeys(level string, count int64) {
	CacheKeys.WithLabelValues(level).Set(float64(count))
}

// TimeCacheOperation returns a timer function for measuring cache operation duration
func TimeCacheOperation(operation string) func() {
	timer := prometheus.NewTimer(CacheOperationDuration.WithLabelValues(operation))
	return func() {
		timer.ObserveDuration()
	}
}
