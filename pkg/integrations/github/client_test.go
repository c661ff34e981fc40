package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/plugindex/pkg/cache"
	"github.com/matzehuels/plugindex/pkg/errors"
	"github.com/matzehuels/plugindex/pkg/plugin"
)

type fakeAPI struct {
	*httptest.Server
	hits atomic.Int32
}

func newFakeAPI(t *testing.T, handler http.HandlerFunc) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func testClient(t *testing.T, serverURL string, opts Options) *Client {
	t.Helper()
	opts.BaseURL = serverURL
	c, err := NewClient(nil, opts)
	require.NoError(t, err)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClientEnrich(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/nvim-lua/plenary.nvim", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"name":              "plenary.nvim",
			"description":       "plenary: full; complete; entire; absolute; unqualified.",
			"stargazers_count":  2500,
			"subscribers_count": 40,
			"topics":            []string{"neovim", "lua"},
			"created_at":        "2020-06-25T15:14:39Z",
			"updated_at":        "2024-05-01T08:00:00Z",
		})
	})
	c := testClient(t, api.URL, Options{})

	rec, err := c.Enrich(context.Background(), plugin.Reference{Owner: "nvim-lua", Name: "plenary.nvim"})
	require.NoError(t, err)

	assert.Equal(t, "plenary.nvim", rec.Name)
	assert.Equal(t, "nvim-lua", rec.Owner)
	assert.Equal(t, uint(2500), rec.Stars)
	assert.Equal(t, uint(40), rec.Watchers)
	assert.Equal(t, []string{"neovim", "lua"}, rec.Topics)
	require.NotNil(t, rec.Description)
	assert.Contains(t, *rec.Description, "plenary")
	require.NotNil(t, rec.CreatedAt)
	assert.Equal(t, time.Date(2020, 6, 25, 15, 14, 39, 0, time.UTC), rec.CreatedAt.UTC())
	require.NotNil(t, rec.UpdatedAt)
}

func TestClientEnrichSparseResponse(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"name": "Bar"})
	})
	c := testClient(t, api.URL, Options{})

	rec, err := c.Enrich(context.Background(), plugin.Reference{Owner: "foo", Name: "bar"})
	require.NoError(t, err)

	assert.Equal(t, "Bar", rec.Name, "name comes from GitHub")
	assert.Equal(t, "foo", rec.Owner, "owner comes from the reference")
	assert.Zero(t, rec.Stars)
	assert.Zero(t, rec.Watchers)
	assert.Nil(t, rec.Description)
	assert.Nil(t, rec.Topics)
	assert.Nil(t, rec.CreatedAt)
	assert.Nil(t, rec.UpdatedAt)
}

func TestClientEnrichNotFound(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(t, w, map[string]any{"message": "Not Found"})
	})
	c := testClient(t, api.URL, Options{})

	ref := plugin.Reference{Owner: "foo", Name: "missing"}
	_, err := c.Enrich(context.Background(), ref)
	require.Error(t, err)

	var repoErr *RepoError
	require.True(t, stderrors.As(err, &repoErr))
	assert.Equal(t, ref, repoErr.Ref)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	assert.Equal(t, int32(1), api.hits.Load(), "404 must not be retried")
}

func TestClientEnrichUnauthorized(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(t, w, map[string]any{"message": "Bad credentials"})
	})
	c := testClient(t, api.URL, Options{})

	_, err := c.Enrich(context.Background(), plugin.Reference{Owner: "foo", Name: "bar"})
	assert.True(t, errors.Is(err, errors.ErrCodeUnauthorized))
}

func TestClientEnrichRateLimited(t *testing.T) {
	reset := time.Now().Add(time.Hour).Unix()
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusForbidden)
		writeJSON(t, w, map[string]any{"message": "API rate limit exceeded"})
	})
	c := testClient(t, api.URL, Options{})

	_, err := c.Enrich(context.Background(), plugin.Reference{Owner: "foo", Name: "bar"})
	assert.True(t, errors.Is(err, errors.ErrCodeRateLimited), "got %v", err)
}

func TestClientEnrichSecondaryRateLimit(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		writeJSON(t, w, map[string]any{
			"message":           "You have exceeded a secondary rate limit.",
			"documentation_url": "https://docs.github.com/rest/overview/rate-limits-for-the-rest-api#about-secondary-rate-limits",
		})
	})
	c := testClient(t, api.URL, Options{})

	_, err := c.Enrich(context.Background(), plugin.Reference{Owner: "foo", Name: "bar"})
	assert.True(t, errors.Is(err, errors.ErrCodeRateLimited), "got %v", err)
	assert.Equal(t, int32(1), api.hits.Load(), "no Retry-After means no retry")
}

func TestClientEnrichSecondaryRateLimitRetryAfter(t *testing.T) {
	var calls atomic.Int32
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusForbidden)
			writeJSON(t, w, map[string]any{
				"message":           "You have exceeded a secondary rate limit.",
				"documentation_url": "https://docs.github.com/rest/overview/rate-limits-for-the-rest-api#about-secondary-rate-limits",
			})
			return
		}
		writeJSON(t, w, map[string]any{"name": "bar"})
	})
	c := testClient(t, api.URL, Options{})

	rec, err := c.Enrich(context.Background(), plugin.Reference{Owner: "foo", Name: "bar"})
	require.NoError(t, err)
	assert.Equal(t, "bar", rec.Name)
	assert.Equal(t, int32(2), api.hits.Load())
}

func TestClientEnrichRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(t, w, map[string]any{"name": "bar"})
	})
	c := testClient(t, api.URL, Options{})

	rec, err := c.Enrich(context.Background(), plugin.Reference{Owner: "foo", Name: "bar"})
	require.NoError(t, err)
	assert.Equal(t, "bar", rec.Name)
	assert.Equal(t, int32(2), api.hits.Load())
}

func TestClientEnrichInvalidReference(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an invalid reference")
	})
	c := testClient(t, api.URL, Options{})

	for _, ref := range []plugin.Reference{
		{Owner: "-bad", Name: "repo"},
		{Owner: "(paren", Name: "repo"},
		{Owner: "ok", Name: "has space"},
		{Owner: "ok", Name: ".."},
	} {
		_, err := c.Enrich(context.Background(), ref)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidRepoRef), "%s: %v", ref, err)
	}
	assert.Zero(t, api.hits.Load())
}

func TestClientEnrichCache(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"name": "bar", "stargazers_count": 7})
	})
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	ref := plugin.Reference{Owner: "foo", Name: "bar"}
	c := testClient(t, api.URL, Options{Cache: fc, TTL: time.Hour})

	first, err := c.Enrich(context.Background(), ref)
	require.NoError(t, err)
	second, err := c.Enrich(context.Background(), ref)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), api.hits.Load(), "second call should hit the cache")

	_, hit, _ := fc.Get(context.Background(), "github:repo:foo/bar")
	assert.True(t, hit)

	refreshing := testClient(t, api.URL, Options{Cache: fc, TTL: time.Hour, Refresh: true})
	_, err = refreshing.Enrich(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, int32(2), api.hits.Load(), "refresh should bypass the cache")
}

func TestClientEnrichCanceled(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"name": "bar"})
	})
	c := testClient(t, api.URL, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Enrich(ctx, plugin.Reference{Owner: "foo", Name: "bar"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientFetchFile(t *testing.T) {
	readme := "# Awesome\n\n- [foo/bar](https://github.com/foo/bar)\n"
	// GitHub wraps base64 content at 60 columns.
	encoded := base64.StdEncoding.EncodeToString([]byte(readme))
	wrapped := encoded[:20] + "\n" + encoded[20:]

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/rockerBOO/awesome-neovim/contents/README.md", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"type":     "file",
			"name":     "README.md",
			"path":     "README.md",
			"encoding": "base64",
			"content":  wrapped,
		})
	})
	c := testClient(t, api.URL, Options{})

	got, err := c.FetchFile(context.Background(), plugin.Reference{Owner: "rockerBOO", Name: "awesome-neovim"}, "README.md")
	require.NoError(t, err)
	assert.Equal(t, readme, got)
}

func TestClientFetchFileErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		handler  http.HandlerFunc
		wantCode errors.Code
	}{
		{
			name: "missing file",
			path: "README.md",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			},
			wantCode: errors.ErrCodeNotFound,
		},
		{
			name: "directory",
			path: "docs",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[{"type":"file","name":"a.md","path":"docs/a.md"}]`))
			},
			wantCode: errors.ErrCodeNotFound,
		},
		{
			name: "bad encoding",
			path: "README.md",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"type":"file","encoding":"base64","content":"%%%not base64"}`))
			},
			wantCode: errors.ErrCodeDecode,
		},
		{
			name: "unsafe path",
			path: "../secrets",
			handler: func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request expected for an unsafe path")
			},
			wantCode: errors.ErrCodeInvalidPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t, tt.handler)
			c := testClient(t, api.URL, Options{})

			_, err := c.FetchFile(context.Background(), plugin.Reference{Owner: "foo", Name: "bar"}, tt.path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantCode), "got %v", err)

			var repoErr *RepoError
			assert.True(t, stderrors.As(err, &repoErr))
		})
	}
}

func TestRepoErrorMessage(t *testing.T) {
	err := repoError(plugin.Reference{Owner: "foo", Name: "bar"}, errors.New(errors.ErrCodeNotFound, "not found"))
	assert.Equal(t, "foo/bar: NOT_FOUND: not found", err.Error())
	assert.Equal(t, []string{"foo/bar", "not found"}, errors.Chain(err))
}

func TestNewClientBadBaseURL(t *testing.T) {
	_, err := NewClient(nil, Options{BaseURL: "://bad"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}
