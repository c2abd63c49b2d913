// Package cache provides pluggable artifact caching for the print pipeline.
//
// Rendering text to a raster and encoding a raster into a printer command
// stream are both deterministic, so repeated prints of the same input can be
// served from cache. Three backends are provided:
//
//   - FileCache: JSON entries with TTL under a directory (CLI default)
//   - RedisCache: shared cache for print server deployments
//   - NullCache: caching disabled
//
// Keys are derived through a Keyer so that every option influencing the
// cached bytes is part of the key.
package cache

import (
	"context"
	"errors"
	"time"
)

// TTLs for the different artifact classes. Rasters and command streams are
// pure functions of their inputs, so the TTL only bounds disk usage.
const (
	// TTLRaster is the lifetime of cached rendered rasters.
	TTLRaster = 7 * 24 * time.Hour

	// TTLCommands is the lifetime of cached printer command streams.
	TTLCommands = 7 * 24 * time.Hour
)

// Sentinel errors for caching operations.
var (
	// ErrNotFound is returned when a requested item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCacheMiss is returned when an item is not found in cache.
	ErrCacheMiss = errors.New("cache miss")
)

// Cache is the storage interface shared by all backends.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// errors are reserved for backend failures. A ttl of zero on Set stores the
// entry without expiration.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
