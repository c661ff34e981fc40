// Package cache stores GitHub metadata responses between runs.
//
// [Cache] is a small byte-oriented key/value interface with per-entry TTL.
// Three backends are provided:
//
//   - [FileCache]: one JSON file per entry under a directory (the default)
//   - [RedisCache]: a Redis server, for sharing a cache between machines
//   - [NullCache]: stores nothing, used by --no-cache
//
// [WithPrefix] namespaces all keys of another Cache, and [GetJSON] and
// [SetJSON] handle encoding of structured values.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Cache is a key/value store with optional expiry.
//
// Get reports a miss with ok == false and a nil error. A TTL of zero means
// the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key joins namespace parts into a cache key, e.g. Key("github", "repo",
// "owner/name") is "github:repo:owner/name".
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// GetJSON reads key and decodes it into v. An entry that no longer decodes
// is treated as a miss.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
