package cli

import (
	"os"
	"path/filepath"
	"testing"

	sderrors "github.com/starlake-ai/starlake-site-builder/pkg/errors"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFile)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", env(nil))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.Cache.Backend != BackendFile || cfg.Prefs.Backend != BackendMemory {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty without a file", cfg.Source)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
base_path = "/data/starlake"
site_url = "https://docs.example.com"

[cache]
backend = "redis"
redis_addr = "cache:6379"

[prefs]
backend = "mongo"
mongo_uri = "mongodb://db:27017"
`)

	cfg, err := LoadConfig(path, env(nil))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BasePath != "/data/starlake" || cfg.SiteURL != "https://docs.example.com" {
		t.Errorf("paths = %+v", cfg)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Prefs.Backend != BackendMongo || cfg.Prefs.MongoURI != "mongodb://db:27017" {
		t.Errorf("prefs = %+v", cfg.Prefs)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, default should survive", cfg.Addr)
	}
	if cfg.Source == "" {
		t.Error("Source should name the file")
	}
}

func TestLoadConfigWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(`addr = ":9000"`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := LoadConfig("", env(nil))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %q, want :9000", cfg.Addr)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	path := writeConfig(t, `base_path = "/from/file"`)

	tests := []struct {
		name          string
		vars          map[string]string
		wantBase      string
		wantTransform string
	}{
		{"file only", nil, "/from/file", ""},
		{"primary env", map[string]string{EnvBasePath: "/env"}, "/env", ""},
		{"legacy env", map[string]string{legacyEnvBasePath: "/legacy"}, "/legacy", ""},
		{"primary wins", map[string]string{EnvBasePath: "/env", legacyEnvBasePath: "/legacy"}, "/env", ""},
		{"transform legacy", map[string]string{legacyEnvTransformBasePath: "/tpch"}, "/from/file", "/tpch"},
		{"transform primary", map[string]string{EnvTransformBasePath: "/t", legacyEnvTransformBasePath: "/tpch"}, "/from/file", "/t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(path, env(tt.vars))
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if cfg.BasePath != tt.wantBase || cfg.TransformBasePath != tt.wantTransform {
				t.Errorf("base = %q, transform = %q; want %q, %q", cfg.BasePath, cfg.TransformBasePath, tt.wantBase, tt.wantTransform)
			}
		})
	}

	cfg, err := LoadConfig(path, env(map[string]string{EnvAddr: ":7000", EnvSiteURL: "http://localhost:7000"}))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":7000" || cfg.SiteURL != "http://localhost:7000" {
		t.Errorf("env overrides = %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", `base_path = `},
		{"unknown key", `basepath = "/x"`},
		{"cache backend", "[cache]\nbackend = \"memcached\""},
		{"prefs backend", "[prefs]\nbackend = \"redis\""},
		{"site url", `site_url = "docs.example.com"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content), env(nil))
			if err == nil {
				t.Fatal("LoadConfig should fail")
			}
		})
	}

	_, err := LoadConfig(writeConfig(t, `nope = 1`), env(nil))
	if !sderrors.Is(err, sderrors.ErrCodeInvalidConfig) {
		t.Errorf("unknown key error = %v, want INVALID_CONFIG", err)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"), env(nil)); err == nil {
		t.Error("an explicit missing file should fail")
	}
}
