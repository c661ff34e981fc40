package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plugindex/pkg/buildinfo"
	"github.com/matzehuels/plugindex/pkg/cache"
	"github.com/matzehuels/plugindex/pkg/errors"
	"github.com/matzehuels/plugindex/pkg/indexer"
	"github.com/matzehuels/plugindex/pkg/integrations"
	"github.com/matzehuels/plugindex/pkg/integrations/github"
	"github.com/matzehuels/plugindex/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "plugindex"

	// redisKeyPrefix namespaces every key written to a shared redis.
	redisKeyPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	out       io.Writer
	verbose   bool
	backtrace bool
	cfgFile   string
}

// New creates a new CLI instance with a default logger.
// Command output goes to stdout; log lines go to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Plugindex builds a searchable index of Neovim plugins",
		Long:          `Plugindex scrapes the curated awesome-neovim list, enriches every plugin with its GitHub metadata and writes the result as a JSON index for the web client.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			if c.backtrace {
				errors.SetBacktrace(true)
			}
			cfg, err := LoadConfig(c.cfgFile)
			if err != nil {
				return err
			}
			c.Config = cfg
			registerHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/plugindex/config.toml)")
	root.PersistentFlags().BoolVar(&c.backtrace, "backtrace", false, "capture stack traces on errors")

	root.AddCommand(c.addCommand())
	root.AddCommand(c.indexCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// clientOptions selects caching behavior for a GitHub client.
type clientOptions struct {
	noCache bool
	refresh bool
}

// newRunner wires a GitHub client authenticated with the configured token
// into an indexer runner. The returned close function releases the cache.
func (c *CLI) newRunner(ctx context.Context, opts clientOptions) (*indexer.Runner, func() error, error) {
	token, err := lookupToken()
	if err != nil {
		return nil, nil, err
	}

	mc, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return nil, nil, err
	}

	logger := loggerFromContext(ctx)
	client, err := github.NewClient(
		integrations.NewHTTPClient(token, c.Config.HTTP.Timeout.Duration),
		github.Options{
			Cache:   mc,
			TTL:     c.Config.Cache.TTL.Duration,
			Refresh: opts.refresh,
			BaseURL: c.Config.GitHub.APIURL,
		},
	)
	if err != nil {
		mc.Close()
		return nil, nil, err
	}

	runner := &indexer.Runner{
		Enricher: client,
		Fetcher:  client,
		Reporter: newConsoleReporter(c.out),
		Logger:   logger,
	}
	return runner, mc.Close, nil
}

// newCache opens the configured metadata cache backend.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	logger := loggerFromContext(ctx)

	switch c.Config.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisURL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "open redis cache %s", redactURL(c.Config.Cache.RedisURL))
		}
		logger.Debug("using redis cache", "url", redactURL(c.Config.Cache.RedisURL))
		return cache.WithPrefix(rc, redisKeyPrefix), nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePersistence, err, "open cache %s", dir)
		}
		logger.Debug("using file cache", "dir", fc.Dir())
		return fc, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the XDG
// default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/plugindex/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configPath returns the default config file using XDG standard
// (~/.config/plugindex/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// registerHooks routes observability events to the debug log.
func registerHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetIndexHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}
