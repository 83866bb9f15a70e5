package noop

import (
	"testing"
	"time"

	"gql-proxy-cache/internal/interfaces"
)

func TestNewNoOpCache(t *testing.T) {
	cache := NewNoOpCache()

	// Verify it implements the Cache interface
	var _ interfaces.Cache = cache

	if _, ok := cache.(*NoOpCache); !ok {
		t.Errorf("NewNoOpCache() should return a *NoOpCache instance")
	}
}

func TestNoOpCache_Get(t *testing.T) {
	cache := NewNoOpCache()

	testCases := []string{
		"anilist:0f1e",
		"",
		"very-long-key-with-special-characters-!@#$%^&*()",
	}

	for _, key := range testCases {
		t.Run("key="+key, func(t *testing.T) {
			val, found := cache.Get(key)

			if val != nil {
				t.Errorf("Get(%q) val = %v, want nil", key, val)
			}
			if found {
				t.Errorf("Get(%q) found = %v, want false", key, found)
			}
		})
	}
}

func TestNoOpCache_SetThenGet(t *testing.T) {
	cache := NewNoOpCache()

	testCases := []struct {
		key string
		val []byte
		ttl time.Duration
	}{
		{"anilist:abc", []byte(`{"data":{"Page":{"pageInfo":{"total":5000}}}}`), 24 * time.Hour},
		{"", []byte(""), 0},
		{"binary-key", []byte{0x01, 0x02, 0x03, 0xFF}, 5 * time.Minute},
	}

	for _, tc := range testCases {
		t.Run("key="+tc.key, func(t *testing.T) {
			cache.Set(tc.key, tc.val, tc.ttl)

			val, found := cache.Get(tc.key)
			if val != nil || found {
				t.Errorf("After Set(%q), Get() = (%v, %v), want (nil, false)", tc.key, val, found)
			}
		})
	}
}

func TestNoOpCache_Delete(t *testing.T) {
	cache := NewNoOpCache()

	// Delete should not panic and should be a no-op
	cache.Delete("anilist:abc")
	cache.Delete("")

	if _, found := cache.Get("anilist:abc"); found {
		t.Errorf("Get() after Delete() found = true, want false")
	}
}
