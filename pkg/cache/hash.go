package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/sciviz/figlint/pkg/scene"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Use full SHA-256 hash (64 hex chars / 256 bits) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// FigureHash returns the content hash of a figure's canonical JSON
// form. Structurally identical figures hash identically, which is what
// lets repeated audits of the same scene hit the cache.
func FigureHash(fig *scene.Figure) string {
	data, err := json.Marshal(fig)
	if err != nil {
		return ""
	}
	return Hash(data)
}
