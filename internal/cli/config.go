package cli

import (
	stderrors "errors"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/plugindex/pkg/errors"
	"github.com/matzehuels/plugindex/pkg/indexer"
	"github.com/matzehuels/plugindex/pkg/integrations"
	"github.com/matzehuels/plugindex/pkg/plugin"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Defaults applied before the config file and environment.
const (
	defaultOutput   = "plugins.json"
	defaultCacheTTL = 6 * time.Hour
	defaultAddr     = ":8080"
)

// tokenEnvVars are checked in order for a GitHub token.
var tokenEnvVars = []string{"GITHUB_ACCESS_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"}

// Config is the merged configuration of a command invocation.
type Config struct {
	Output string       `toml:"output"`
	Source SourceConfig `toml:"source"`
	Cache  CacheConfig  `toml:"cache"`
	HTTP   HTTPConfig   `toml:"http"`
	GitHub GitHubConfig `toml:"github"`
	Server ServerConfig `toml:"server"`
}

// SourceConfig names the README that lists the plugins.
type SourceConfig struct {
	Owner string `toml:"owner"`
	Name  string `toml:"name"`
	Path  string `toml:"path"`
}

// CacheConfig selects and tunes the metadata cache.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	TTL      Duration `toml:"ttl"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
}

// HTTPConfig tunes outgoing requests.
type HTTPConfig struct {
	Timeout Duration `toml:"timeout"`
}

// GitHubConfig points the client at a different API, e.g. GitHub Enterprise.
type GitHubConfig struct {
	APIURL string `toml:"api_url"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as "6h" or "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Output: defaultOutput,
		Source: SourceConfig{
			Owner: indexer.DefaultSource.Repo.Owner,
			Name:  indexer.DefaultSource.Repo.Name,
			Path:  indexer.DefaultSource.Path,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     Duration{defaultCacheTTL},
		},
		HTTP:   HTTPConfig{Timeout: Duration{integrations.DefaultTimeout}},
		Server: ServerConfig{Addr: defaultAddr},
	}
}

// LoadConfig builds the configuration from defaults, the config file and the
// environment, in increasing precedence. A .env file in the working
// directory is loaded first without overriding variables already set.
//
// An explicit path must exist; the default path may be absent.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load .env")
	}

	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if explicit || !stderrors.Is(err, fs.ErrNotExist) {
				return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
			}
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Output, "PLUGINDEX_OUTPUT")
	set(&cfg.Cache.Backend, "PLUGINDEX_CACHE")
	set(&cfg.Cache.Dir, "PLUGINDEX_CACHE_DIR")
	set(&cfg.Cache.RedisURL, "PLUGINDEX_REDIS_URL")
	set(&cfg.GitHub.APIURL, "PLUGINDEX_GITHUB_API_URL")
	set(&cfg.Server.Addr, "PLUGINDEX_ADDR")
}

// Validate checks the values that cannot be caught by decoding.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_url")
		}
		if err := errors.ValidateURL(c.Cache.RedisURL, "redis", "rediss", "unix"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	if c.HTTP.Timeout.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "http timeout must be positive")
	}
	if err := errors.ValidateOutputPath(c.Output); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid output")
	}
	if c.GitHub.APIURL != "" {
		if err := errors.ValidateURL(c.GitHub.APIURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid github api_url")
		}
	}
	if _, err := c.source(); err != nil {
		return err
	}
	return nil
}

// source converts the configured source to the indexer's form.
func (c Config) source() (indexer.Source, error) {
	repo, err := plugin.ParseReference(c.Source.Owner + "/" + c.Source.Name)
	if err != nil {
		return indexer.Source{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid source repository")
	}
	if err := errors.ValidatePath(c.Source.Path); err != nil {
		return indexer.Source{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid source path")
	}
	return indexer.Source{Repo: repo, Path: c.Source.Path}, nil
}

// lookupToken returns the first GitHub token found in the environment.
func lookupToken() (string, error) {
	for _, key := range tokenEnvVars {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v, nil
		}
	}
	return "", errors.New(errors.ErrCodeMissingCredentials,
		"GitHub token required: set %s", strings.Join(tokenEnvVars, ", "))
}

// redactURL hides the password of a connection URL for logging.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid>"
	}
	return u.Redacted()
}
