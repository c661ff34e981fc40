package integrations

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/plugindex/pkg/cache"
	"github.com/matzehuels/plugindex/pkg/errors"
	"github.com/matzehuels/plugindex/pkg/httputil"
	"github.com/matzehuels/plugindex/pkg/observability"
)

func TestNewClient(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	defer c.Close()

	client := NewClient(c, "test", time.Hour, nil)
	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.HTTP() == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.cache != c {
		t.Error("NewClient() cache not set correctly")
	}
}

func TestNewClientNilCache(t *testing.T) {
	client := NewClient(nil, "test", time.Hour, nil)
	if _, ok := client.cache.(*cache.NullCache); !ok {
		t.Errorf("nil cache should become NullCache, got %T", client.cache)
	}
}

type testData struct {
	Value string `json:"value"`
}

func TestClientCached(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	client := NewClient(c, "test", time.Hour, nil)
	ctx := context.Background()

	fetchCount := 0
	fetch := func(v *testData) func() error {
		return func() error {
			fetchCount++
			*v = testData{Value: "fetched"}
			return nil
		}
	}

	var first testData
	if err := client.Cached(ctx, "key", false, &first, fetch(&first)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetchCount != 1 || first.Value != "fetched" {
		t.Fatalf("first call: count %d, value %q", fetchCount, first.Value)
	}

	var second testData
	if err := client.Cached(ctx, "key", false, &second, fetch(&second)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetchCount != 1 {
		t.Errorf("second call should be served from cache, fetch count = %d", fetchCount)
	}
	if second.Value != "fetched" {
		t.Errorf("cached value = %q", second.Value)
	}

	if _, hit, _ := c.Get(ctx, "test:key"); !hit {
		t.Error("entry should be stored under the namespaced key")
	}
}

func TestClientCachedRefresh(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	client := NewClient(c, "test", time.Hour, nil)
	ctx := context.Background()

	fetchCount := 0
	var value testData
	fetch := func() error {
		fetchCount++
		value = testData{Value: "fetched"}
		return nil
	}

	_ = client.Cached(ctx, "key", false, &value, fetch)
	if err := client.Cached(ctx, "key", true, &value, fetch); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetchCount != 2 {
		t.Errorf("refresh should bypass cache, fetch count = %d", fetchCount)
	}
}

func TestClientCachedFetchError(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	client := NewClient(c, "test", time.Hour, nil)
	ctx := context.Background()

	fetchCount := 0
	var value testData
	notFound := errors.New(errors.ErrCodeNotFound, "missing")
	err := client.Cached(ctx, "key", false, &value, func() error {
		fetchCount++
		return notFound
	})
	if err != notFound {
		t.Errorf("Cached() error = %v, want %v", err, notFound)
	}
	if fetchCount != 1 {
		t.Errorf("non-retryable error should not be retried, count = %d", fetchCount)
	}
	if _, hit, _ := c.Get(ctx, "test:key"); hit {
		t.Error("failed fetch should not be cached")
	}
}

func TestClientInvalidate(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	client := NewClient(c, "test", time.Hour, nil)
	ctx := context.Background()

	var v testData
	_ = client.Cached(ctx, "key", false, &v, func() error { v.Value = "x"; return nil })
	if err := client.Invalidate(ctx, "key"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "test:key"); hit {
		t.Error("Invalidate should remove the entry")
	}
}

type recordingCacheHooks struct {
	observability.NoopCacheHooks
	mu                sync.Mutex
	hits, misses, set int
}

func (h *recordingCacheHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *recordingCacheHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func (h *recordingCacheHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.set++
}

func TestClientCachedFiresHooks(t *testing.T) {
	hooks := &recordingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	c, _ := cache.NewFileCache(t.TempDir())
	client := NewClient(c, "test", time.Hour, nil)
	ctx := context.Background()

	var v testData
	fetch := func() error { v.Value = "x"; return nil }
	_ = client.Cached(ctx, "key", false, &v, fetch)
	_ = client.Cached(ctx, "key", false, &v, fetch)

	if hooks.misses != 1 || hooks.hits != 1 || hooks.set != 1 {
		t.Errorf("hooks: misses %d hits %d set %d, want 1 1 1", hooks.misses, hooks.hits, hooks.set)
	}
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		wantCode  errors.Code
		retryable bool
	}{
		{name: "200 OK", code: 200},
		{name: "404 Not Found", code: 404, wantCode: errors.ErrCodeNotFound},
		{name: "401 Unauthorized", code: 401, wantCode: errors.ErrCodeUnauthorized},
		{name: "403 Forbidden", code: 403, wantCode: errors.ErrCodeUnauthorized},
		{name: "429 Too Many Requests", code: 429, wantCode: errors.ErrCodeRateLimited},
		{name: "500 Internal Server Error", code: 500, wantCode: errors.ErrCodeNetwork, retryable: true},
		{name: "503 Service Unavailable", code: 503, wantCode: errors.ErrCodeNetwork, retryable: true},
		{name: "400 Bad Request", code: 400, wantCode: errors.ErrCodeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := StatusError(tt.code, stderrors.New("cause"))
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("StatusError() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("StatusError() = %v, want code %s", err, tt.wantCode)
			}
			var retryErr *httputil.RetryableError
			if got := stderrors.As(err, &retryErr); got != tt.retryable {
				t.Errorf("retryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestNetworkErrorIsRetryable(t *testing.T) {
	err := NetworkError(stderrors.New("connection refused"))
	var retryErr *httputil.RetryableError
	if !stderrors.As(err, &retryErr) {
		t.Fatal("NetworkError should be retryable")
	}
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Error("NetworkError should carry NETWORK_ERROR")
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu        sync.Mutex
	requests  int
	responses []int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, status)
}

func TestNewHTTPClientAuthAndHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client := NewHTTPClient("secret", time.Second)
	resp, err := client.Get(server.URL + "/x")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if hooks.requests != 1 || len(hooks.responses) != 1 || hooks.responses[0] != http.StatusTeapot {
		t.Errorf("hooks: requests %d responses %v", hooks.requests, hooks.responses)
	}
}

func TestNewHTTPClientNoToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	client := NewHTTPClient("", 0)
	if client.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.Timeout, DefaultTimeout)
	}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if gotAuth != "" {
		t.Errorf("Authorization should be empty, got %q", gotAuth)
	}
}
