package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCacheMetrics(t *testing.T) {
	// Metrics are package-level variables, automatically registered.
	// These checks verify the helpers don't panic and move the right series.

	t.Run("RecordCacheHit", func(t *testing.T) {
		before := testutil.ToFloat64(CacheHits.WithLabelValues("default", "l2"))
		RecordCacheHit("default", "l2")
		after := testutil.ToFloat64(CacheHits.WithLabelValues("default", "l2"))
		if after != before+1 {
			t.Errorf("cache_hits_total{default,l2} = %v, want %v", after, before+1)
		}
	})

	t.Run("RecordCacheMiss", func(t *testing.T) {
		before := testutil.ToFloat64(CacheMisses.WithLabelValues("short"))
		RecordCacheMiss("short")
		if got := testutil.ToFloat64(CacheMisses.WithLabelValues("short")); got != before+1 {
			t.Errorf("cache_misses_total{short} = %v, want %v", got, before+1)
		}
	})

	t.Run("RecordCacheError", func(t *testing.T) {
		RecordCacheError("l1", "encode")
	})

	t.Run("RecordProxyRequest", func(t *testing.T) {
		before := testutil.ToFloat64(ProxyRequests.WithLabelValues("hit"))
		RecordProxyRequest("hit")
		if got := testutil.ToFloat64(ProxyRequests.WithLabelValues("hit")); got != before+1 {
			t.Errorf("proxy_requests_total{hit} = %v, want %v", got, before+1)
		}
	})

	t.Run("RecordUpstreamRequest", func(t *testing.T) {
		before := testutil.ToFloat64(UpstreamRequests.WithLabelValues("none", "200"))
		RecordUpstreamRequest(NoError, 200, 150*time.Millisecond)
		if got := testutil.ToFloat64(UpstreamRequests.WithLabelValues("none", "200")); got != before+1 {
			t.Errorf("upstream_requests_total{none,200} = %v, want %v", got, before+1)
		}

		RecordUpstreamRequest(NetworkError, 0, time.Second)
		if got := testutil.ToFloat64(UpstreamRequests.WithLabelValues("network_error", "none")); got < 1 {
			t.Errorf("upstream_requests_total{network_error,none} = %v, want >= 1", got)
		}
	})

	t.Run("RecordCoalescedRequest", func(t *testing.T) {
		RecordCoalescedRequest()
	})

	t.Run("UpdateL1CacheCapacity", func(t *testing.T) {
		UpdateL1CacheCapacity(1000000, 500000)
		if got := testutil.ToFloat64(CacheCapacity.WithLabelValues("l1")); got != 1000000 {
			t.Errorf("cache_capacity_bytes{l1} = %v, want 1000000", got)
		}
	})

	t.Run("UpdateCacheKeys", func(t *testing.T) {
		UpdateCacheKeys("l1", 1000)
		if got := testutil.ToFloat64(CacheKeys.WithLabelValues("l1")); got != 1000 {
			t.Errorf("cache_keys{l1} = %v, want 1000", got)
		}
	})

	t.Run("TimeCacheOperation", func(t *testing.T) {
		timer := TimeCacheOperation("get")
		timer()
	})
}
