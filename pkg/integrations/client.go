package integrations

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/matzehuels/plugindex/pkg/cache"
	"github.com/matzehuels/plugindex/pkg/httputil"
	"github.com/matzehuels/plugindex/pkg/observability"
)

// Client provides shared functionality for API clients: an HTTP client,
// a namespaced response cache and retry of transient failures.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	namespace string
	ttl       time.Duration
}

// NewClient creates a Client. Cache keys are prefixed with namespace and
// entries expire after ttl. A nil cache disables caching and a nil
// httpClient uses [NewHTTPClient] without authentication.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, httpClient *http.Client) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	if httpClient == nil {
		httpClient = NewHTTPClient("", DefaultTimeout)
	}
	return &Client{
		http:      httpClient,
		cache:     c,
		namespace: namespace,
		ttl:       ttl,
	}
}

// HTTP returns the underlying HTTP client.
func (c *Client) HTTP() *http.Client { return c.http }

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache read is skipped but the fresh value is
// still written. fetch should populate v; errors it wraps in
// [httputil.RetryableError] are retried with backoff.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	full := cache.Key(c.namespace, key)
	hooks := observability.Cache()

	if !refresh {
		if ok, _ := cache.GetJSON(ctx, c.cache, full, v); ok {
			hooks.OnCacheHit(ctx, c.namespace)
			return nil
		}
		hooks.OnCacheMiss(ctx, c.namespace)
	}

	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if err := c.cache.Set(ctx, full, data, c.ttl); err == nil {
		hooks.OnCacheSet(ctx, c.namespace, len(data))
	}
	return nil
}

// Invalidate drops the cached value for key.
func (c *Client) Invalidate(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, cache.Key(c.namespace, key))
}
