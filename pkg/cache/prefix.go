package cache

import (
	"context"
	"time"
)

// prefixed wraps a Cache with a key prefix so that several tools can share
// one backend (typically a Redis database) without colliding.
type prefixed struct {
	inner  Cache
	prefix string
}

// WithPrefix returns a Cache that prepends prefix to every key before
// delegating to inner. Closing the returned cache closes inner.
func WithPrefix(inner Cache, prefix string) Cache {
	if prefix == "" {
		return inner
	}
	return &prefixed{inner: inner, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return p.inner.Set(ctx, p.prefix+key, data, ttl)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}

func (p *prefixed) Close() error { return p.inner.Close() }
