package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/matzehuels/plugindex/pkg/cache"
)

func TestCachePathCommand(t *testing.T) {
	isolateEnv(t)
	dir := filepath.Join(t.TempDir(), "meta")
	t.Setenv("PLUGINDEX_CACHE_DIR", dir)

	code, stdout, _ := run(t, "cache", "path")
	if code != ExitOK {
		t.Fatalf("exit code = %d", code)
	}
	if strings.TrimSpace(stdout) != dir {
		t.Errorf("cache path = %q, want %q", stdout, dir)
	}
}

func TestCachePathDefault(t *testing.T) {
	isolateEnv(t)

	code, stdout, _ := run(t, "cache", "path")
	if code != ExitOK {
		t.Fatalf("exit code = %d", code)
	}
	want := filepath.Join(getenv(t, "XDG_CACHE_HOME"), appName)
	if strings.TrimSpace(stdout) != want {
		t.Errorf("cache path = %q, want %q", stdout, want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	isolateEnv(t)
	dir := filepath.Join(t.TempDir(), "meta")
	t.Setenv("PLUGINDEX_CACHE_DIR", dir)

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"github:repo:foo/bar", "github:repo:baz/qux"} {
		if err := fc.Set(ctx, key, []byte(`{}`), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	code, stdout, stderr := run(t, "cache", "clear")
	if code != ExitOK {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "Cleared 2 cached entries") {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stdout, "Directory: "+dir) {
		t.Errorf("stdout = %q, want cache directory", stdout)
	}

	if _, ok, _ := fc.Get(ctx, "github:repo:foo/bar"); ok {
		t.Error("entry should be gone after clear")
	}
}

func TestCacheClearEmpty(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PLUGINDEX_CACHE_DIR", filepath.Join(t.TempDir(), "never-created"))

	code, stdout, _ := run(t, "cache", "clear")
	if code != ExitOK {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "Cache is empty") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestNewCacheBackends(t *testing.T) {
	isolateEnv(t)
	ctx := context.Background()

	c := New(new(strings.Builder), LogInfo)
	c.Config.Cache.Dir = t.TempDir()

	got, err := c.newCache(ctx, false)
	if err != nil {
		t.Fatalf("newCache() error: %v", err)
	}
	if _, ok := got.(*cache.FileCache); !ok {
		t.Errorf("file backend returned %T", got)
	}

	got, err = c.newCache(ctx, true)
	if err != nil {
		t.Fatalf("newCache(noCache) error: %v", err)
	}
	if _, ok := got.(*cache.NullCache); !ok {
		t.Errorf("--no-cache returned %T", got)
	}

	c.Config.Cache.Backend = BackendNone
	got, err = c.newCache(ctx, false)
	if err != nil {
		t.Fatalf("newCache(none) error: %v", err)
	}
	if _, ok := got.(*cache.NullCache); !ok {
		t.Errorf("none backend returned %T", got)
	}

	c.Config.Cache.Backend = BackendRedis
	c.Config.Cache.RedisURL = "not a url"
	if _, err := c.newCache(ctx, false); err == nil {
		t.Error("redis backend with a bad url should fail")
	}
}

func TestNewCacheRedisPrefixesKeys(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)

	c := New(new(strings.Builder), LogInfo)
	c.Config.Cache.Backend = BackendRedis
	c.Config.Cache.RedisURL = "redis://" + srv.Addr()

	got, err := c.newCache(ctx, false)
	if err != nil {
		t.Fatalf("newCache(redis) error: %v", err)
	}
	defer got.Close()

	if err := got.Set(ctx, "github:repo:foo/bar", []byte("{}"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !srv.Exists(redisKeyPrefix + "github:repo:foo/bar") {
		t.Errorf("redis keys = %v, want %q prefix", srv.Keys(), redisKeyPrefix)
	}
}

func getenv(t *testing.T, key string) string {
	t.Helper()
	v, ok := os.LookupEnv(key)
	if !ok {
		t.Fatalf("%s not set", key)
	}
	return v
}
