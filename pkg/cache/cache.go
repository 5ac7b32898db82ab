// Package cache implements the read-path response cache.
//
// Listing and detail responses are cached under keys derived from the
// request path and its sorted query string; every successful mutation on a
// resource invalidates that resource's whole key prefix. Two drivers are
// provided: an in-process memory store (the default) and Redis for
// multi-instance deployments. Select with CACHE_DRIVER.
package cache

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/shashiranjanraj/fastfood-api/config"
)

// Store is the contract both drivers satisfy.
type Store interface {
	// Get unmarshals the cached value under key into dest.
	// Returns true on a hit, false on miss or error.
	Get(key string, dest interface{}) bool

	// Put stores value under key for the given TTL.
	Put(key string, value interface{}, ttl time.Duration) error

	// Invalidate removes every key starting with prefix.
	Invalidate(prefix string) error

	// Flush removes all keys.
	Flush() error
}

// Default is the process-wide store, set by Connect.
var Default Store = NewMemory()

// Connect selects the configured driver. With CACHE_DRIVER=redis a failed
// connection falls back to the memory store so caching degrades instead of
// taking the API down.
func Connect() error {
	if config.CacheDriver() != "redis" {
		Default = NewMemory()
		return nil
	}

	r, err := NewRedis(config.RedisAddr(), config.RedisPassword())
	if err != nil {
		Default = NewMemory()
		return fmt.Errorf("cache: %w", err)
	}

	Default = r
	return nil
}

// Key builds the cache key for a GET request: resource prefix, path, and
// the query parameters in sorted order so parameter order never splits
// the cache.
func Key(resource string, r *http.Request) string {
	params := r.URL.Query()

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(resource)
	sb.WriteByte(':')
	sb.WriteString(r.URL.Path)

	for i, name := range names {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(strings.Join(params[name], ","))
	}

	return sb.String()
}

// Prefix returns the invalidation prefix for a resource.
func Prefix(resource string) string {
	return resource + ":"
}
