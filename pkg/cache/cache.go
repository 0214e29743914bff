// Package cache provides pluggable result caching for audit runs.
//
// Audits are deterministic over (figure, standard, thresholds), which
// makes reports and fixed figures safe to cache under content-derived
// keys. Three backends are provided: a file cache for CLI usage, a
// Redis cache for the audit service, and a null cache that disables
// caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the
	// key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A non-positive ttl
	// stores the value without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Cache lifetimes per content type. Reports and fixed figures derive
// from content hashes, so staleness only matters when checker logic
// changes between releases.
const (
	// TTLReport is the lifetime of cached audit reports.
	TTLReport = 24 * time.Hour

	// TTLFigure is the lifetime of cached fixed figures.
	TTLFigure = 24 * time.Hour

	// TTLArtifact is the lifetime of cached report renderings.
	TTLArtifact = 7 * 24 * time.Hour
)
