package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	sderrors "github.com/starlake-ai/starlake-site-builder/pkg/errors"
)

// ConfigFile is the file name looked up in the working directory when no
// --config flag is given.
const ConfigFile = "starlake-docs.toml"

// Environment variables read by [LoadConfig]. The legacy names are used only
// when the primary one is unset.
const (
	EnvBasePath          = "STARLAKE_DOCS_BASE_PATH"
	EnvTransformBasePath = "STARLAKE_DOCS_TRANSFORM_BASE_PATH"
	EnvSiteURL           = "STARLAKE_DOCS_SITE_URL"
	EnvAddr              = "STARLAKE_DOCS_ADDR"

	legacyEnvBasePath          = "SITE_BASE_PATH"
	legacyEnvTransformBasePath = "TPCH_BASE_PATH"
)

// Backends accepted in the [cache] and [prefs] tables.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// =============================================================================
// Config
// =============================================================================

// Config is the merged configuration of a command.
type Config struct {
	// BasePath holds tables/ and table-relations/.
	BasePath string `toml:"base_path"`
	// TransformBasePath holds tasks/ and task-lineage/. Empty reuses BasePath.
	TransformBasePath string `toml:"transform_base_path"`

	SiteURL string `toml:"site_url"`
	Addr    string `toml:"addr"`

	Cache CacheConfig `toml:"cache"`
	Prefs PrefsConfig `toml:"prefs"`

	// Source is the file the config was read from, if any.
	Source string `toml:"-"`
}

// CacheConfig selects the diagram cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// PrefsConfig selects the preference store backend.
type PrefsConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Addr:  ":8080",
		Cache: CacheConfig{Backend: BackendFile},
		Prefs: PrefsConfig{Backend: BackendMemory},
	}
}

// LoadConfig reads path (or ./starlake-docs.toml when path is empty and the
// file exists) over the defaults, then applies environment overrides.
// An explicit path that does not exist is an error.
func LoadConfig(path string, getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()
	if getenv == nil {
		getenv = os.Getenv
	}

	explicit := path != ""
	if !explicit {
		path = ConfigFile
	}
	if err := cfg.decodeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	cfg.applyEnv(getenv)
	return cfg, cfg.Validate()
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
		return sderrors.Wrap(sderrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return sderrors.New(sderrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if abs, err := filepath.Abs(path); err == nil {
		c.Source = abs
	} else {
		c.Source = path
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := firstEnv(getenv, EnvBasePath, legacyEnvBasePath); v != "" {
		c.BasePath = v
	}
	if v := firstEnv(getenv, EnvTransformBasePath, legacyEnvTransformBasePath); v != "" {
		c.TransformBasePath = v
	}
	if v := getenv(EnvSiteURL); v != "" {
		c.SiteURL = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Addr = v
	}
}

func firstEnv(getenv func(string) string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// Validate checks the backend names and the site URL.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendNone, BackendFile, BackendRedis:
	default:
		return sderrors.New(sderrors.ErrCodeInvalidConfig, "unknown cache backend %q (want none, file or redis)", c.Cache.Backend)
	}
	switch c.Prefs.Backend {
	case BackendMemory, BackendFile, BackendMongo:
	default:
		return sderrors.New(sderrors.ErrCodeInvalidConfig, "unknown prefs backend %q (want memory, file or mongo)", c.Prefs.Backend)
	}
	if c.SiteURL != "" {
		if err := sderrors.ValidateURL(c.SiteURL); err != nil {
			return err
		}
	}
	return nil
}
