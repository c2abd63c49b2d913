package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a "prefix:digest" cache key from the JSON encoding of
// parts. Raster and command keys share this helper so the same options
// always map to the same key regardless of which stage asks.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	// Full 64-char digest; cache keys outlive processes, so truncation
	// is not worth the collision risk.
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 digest of data. Pipeline stages use it to
// fingerprint the input text before mixing in the per-stage options.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
