// Package repository holds the file-backed stores of the dashboard: a TTL
// cache of upstream payloads and the persisted favorites list.
package repository

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is a keyed JSON store whose entries expire after a caller-supplied TTL.
type Cache interface {
	// Get returns the stored payload for key when it is younger than ttl.
	// Absent, unreadable and expired entries all report false.
	Get(ctx context.Context, key string, ttl time.Duration) (json.RawMessage, bool)

	// Set stores value under key, replacing any previous entry. Write failures
	// are logged and counted, never returned.
	Set(ctx context.Context, key string, value any)
}

// FavoritesStore persists the ordered list of favorite team ids.
type FavoritesStore interface {
	// Load returns the stored ids. A missing or corrupt file yields an empty
	// list and no error.
	Load(ctx context.Context) ([]int, error)

	// Save replaces the stored ids.
	Save(ctx context.Context, ids []int) error
}
