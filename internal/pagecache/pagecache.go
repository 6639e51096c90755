// Package pagecache stores fetched board page bodies keyed by their URL so
// that repeated scans within the TTL reuse the cached HTML instead of hitting
// the remote host again. Listing and detail pages of a press-release window
// change rarely, which makes even a short TTL worthwhile across runs.
package pagecache

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kpress/msit-dl/internal/metrics"
)

// Store holds fetched page bodies keyed by URL with LRU semantics.
type Store interface {
	// Get returns the cached body for pageURL, or nil and false on a miss.
	Get(pageURL string) ([]byte, bool)

	// Set stores the body for pageURL, overwriting any previous entry.
	Set(pageURL string, body []byte)

	// Contains reports whether pageURL is cached without touching LRU order.
	Contains(pageURL string) bool

	// Len returns the number of cached pages.
	Len() int

	// Close releases backend resources. A no-op for the in-process store.
	Close() error
}

// Config selects and sizes the page cache backend.
type Config struct {
	// Provider is "memory" for an in-process LRU or "redis" for a cache that
	// survives the run.
	Provider string

	// Size is the maximum number of cached pages.
	Size int

	// TTL bounds how long a cached page is served before it is refetched.
	TTL time.Duration

	// RedisAddress, RedisPassword and RedisDB configure the redis provider.
	RedisAddress  string
	RedisPassword string
	RedisDB       int

	// Logger receives backend errors. Cache failures are never fatal; a
	// failed Get is a miss and a failed Set is dropped.
	Logger zerolog.Logger
}

// New builds the configured page cache. The returned store records hit, miss
// and eviction counters and exposes the current page count as a gauge.
func New(cfg Config) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Provider {
	case "memory":
		store = newMemoryStore(cfg)
	case "redis":
		store, err = newRedisStore(cfg)
	default:
		return nil, fmt.Errorf("pagecache: unknown provider %q (want \"memory\" or \"redis\")", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return newCountedStore(store), nil
}

// countedStore wraps a Store and records page cache hits and misses. The
// entries gauge reads Len at scrape time, which stays correct for the redis
// backend where TTL expiry removes pages outside the process.
type countedStore struct {
	inner Store
}

func newCountedStore(inner Store) *countedStore {
	registerEntriesGauge(inner.Len)
	return &countedStore{inner: inner}
}

func (s *countedStore) Get(pageURL string) ([]byte, bool) {
	body, ok := s.inner.Get(pageURL)
	if ok {
		metrics.PageCacheHitsTotal.Inc()
	} else {
		metrics.PageCacheMissesTotal.Inc()
	}
	return body, ok
}

func (s *countedStore) Set(pageURL string, body []byte) {
	s.inner.Set(pageURL, body)
}

func (s *countedStore) Contains(pageURL string) bool {
	return s.inner.Contains(pageURL)
}

func (s *countedStore) Len() int {
	return s.inner.Len()
}

func (s *countedStore) Close() error {
	unregisterEntriesGauge()
	return s.inner.Close()
}
