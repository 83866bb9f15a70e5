package models

import "time"

// CacheEntry wraps a value stored in an in-process cache that has no per-key expiry.
// Timestamps are Unix milliseconds.
type CacheEntry struct {
	Data      []byte `json:"data"`
	CreatedAt int64  `json:"created_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// NewCacheEntry creates an entry that expires ttl from now
func NewCacheEntry(data []byte, ttl time.Duration) *CacheEntry {
	now := time.Now().UnixMilli()
	return &CacheEntry{
		Data:      data,
		CreatedAt: now,
		ExpiresAt: now + ttl.Milliseconds(),
	}
}

// IsExpired returns true once the entry's lifetime has elapsed
func (e *CacheEntry) IsExpired() bool {
	return time.Now().UnixMilli() >= e.ExpiresAt
}
