package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/starlake-ai/starlake-site-builder/pkg/buildinfo"
	"github.com/starlake-ai/starlake-site-builder/pkg/cache"
	"github.com/starlake-ai/starlake-site-builder/pkg/metadata"
	"github.com/starlake-ai/starlake-site-builder/pkg/observability"
	"github.com/starlake-ai/starlake-site-builder/pkg/pipeline"
	"github.com/starlake-ai/starlake-site-builder/pkg/prefs"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "starlake-docs"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Getenv reads the environment. Tests replace it.
	Getenv func(string) string

	// Out receives command output.
	Out io.Writer

	configPath        string
	basePath          string
	transformBasePath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Getenv: os.Getenv,
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Browse and serve Starlake metadata documentation",
		Long: `starlake-docs reads exported Starlake metadata (load domains, tables,
transform tasks, relations and lineage) and serves it as a JSON/SVG API,
with search, diagrams, a sitemap and robots.txt.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+ConfigFile+")")
	root.PersistentFlags().StringVar(&c.basePath, "base-path", "", "metadata directory holding tables/ and table-relations/")
	root.PersistentFlags().StringVar(&c.transformBasePath, "transform-base-path", "", "metadata directory holding tasks/ and task-lineage/ (default: --base-path)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.sitemapCommand())
	root.AddCommand(c.robotsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Wiring
// =============================================================================

// config loads the configuration and applies the persistent flags last.
func (c *CLI) config() (Config, error) {
	cfg, err := LoadConfig(c.configPath, c.Getenv)
	if err != nil {
		return Config{}, err
	}
	if c.basePath != "" {
		cfg.BasePath = c.basePath
	}
	if c.transformBasePath != "" {
		cfg.TransformBasePath = c.transformBasePath
	}
	if cfg.Source != "" {
		c.Logger.Debug("loaded config", "file", cfg.Source)
	}
	return cfg, nil
}

// catalog opens the metadata directories named by cfg.
func (c *CLI) catalog(cfg Config) *metadata.Catalog {
	if cfg.BasePath == "" && cfg.TransformBasePath == "" {
		c.Logger.Warn("no metadata base path configured", "env", EnvBasePath)
	}
	return metadata.Open(cfg.BasePath, cfg.TransformBasePath, c.Logger)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg Config, cat *metadata.Catalog, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		cfg.Cache.Backend = BackendNone
	}
	cc, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cat, cc, nil, c.Logger), nil
}

func newCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc := cache.DefaultRedisConfig()
		if cfg.RedisAddr != "" {
			rc.Addr = cfg.RedisAddr
		}
		if cfg.RedisPrefix != "" {
			rc.Prefix = cfg.RedisPrefix
		}
		rc.Password, rc.DB = cfg.RedisPassword, cfg.RedisDB
		redisCache, err := cache.NewRedisCache(ctx, rc)
		if err != nil {
			return nil, err
		}
		return redisCache, nil
	}

	dir, err := fileCacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return fc, nil
}

func newPrefs(ctx context.Context, cfg PrefsConfig) (prefs.Store, error) {
	switch cfg.Backend {
	case BackendFile:
		store, err := prefs.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendMongo:
		mc := prefs.DefaultMongoConfig()
		if cfg.MongoURI != "" {
			mc.URI = cfg.MongoURI
		}
		if cfg.MongoDatabase != "" {
			mc.Database = cfg.MongoDatabase
		}
		if cfg.MongoCollection != "" {
			mc.Collection = cfg.MongoCollection
		}
		ms, err := prefs.NewMongoStore(ctx, mc)
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	return prefs.NewMemoryStore(), nil
}

// registerHooks routes pipeline, search, cache and HTTP events to the logger.
func (c *CLI) registerHooks() {
	h := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(h)
	observability.SetSearchHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/starlake-docs/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, ".cache", appName), nil
}
