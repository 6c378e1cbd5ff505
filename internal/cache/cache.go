// Package cache provides a short-lived response cache for the
// structured generation endpoints.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// defaultTTL bounds how long a structured result is reused. Upstream
// output for the same topic drifts anyway; ten minutes mostly absorbs
// repeated identical requests (e.g. a classroom hitting one topic).
const defaultTTL = 10 * time.Minute

// ResponseCache caches serialized successful responses keyed by
// endpoint and request payload.
type ResponseCache struct {
	cache *ristretto.Cache[string, []byte]
	ttl   time.Duration
}

// New creates a response cache with a 64MB budget.
func New() (*ResponseCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 1e6,
		MaxCost:     64 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &ResponseCache{cache: c, ttl: defaultTTL}, nil
}

// Key derives a cache key from the endpoint name and raw request body.
func Key(endpoint string, payload []byte) string {
	sum := sha256.Sum256(payload)
	return endpoint + ":" + hex.EncodeToString(sum[:16])
}

// Get returns a cached response body.
func (rc *ResponseCache) Get(key string) ([]byte, bool) {
	return rc.cache.Get(key)
}

// Set stores a response body, costed by size.
func (rc *ResponseCache) Set(key string, body []byte) {
	rc.cache.SetWithTTL(key, body, int64(len(body)), rc.ttl)
}

// Wait blocks until pending writes are applied. Used in tests.
func (rc *ResponseCache) Wait() {
	rc.cache.Wait()
}
