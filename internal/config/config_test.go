package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.APIBaseURL != "https://pokeapi.co/api/v2" {
		t.Errorf("Expected default API URL, got %s", cfg.APIBaseURL)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("Expected HTTPTimeout 10s, got %v", cfg.HTTPTimeout)
	}
	if cfg.DBDriver != "duckdb" || cfg.DBDSN != ":memory:" {
		t.Errorf("Expected in-memory duckdb, got %s %s", cfg.DBDriver, cfg.DBDSN)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid, got error: %v", err)
	}
}

func TestConfigBuilderMethods(t *testing.T) {
	base := DefaultConfig()

	cfg := base.WithAPIBaseURL("http://localhost:8080/api/v2/").
		WithStore("sqlite3", "file::memory:").
		WithPageSize(10).
		WithHTTPTimeout(time.Second).
		WithLogFile("")

	if cfg.APIBaseURL != "http://localhost:8080/api/v2" {
		t.Errorf("trailing slash should be trimmed, got %s", cfg.APIBaseURL)
	}
	if cfg.DBDriver != "sqlite3" || cfg.PageSize != 10 || cfg.HTTPTimeout != time.Second || cfg.LogFile != "" {
		t.Errorf("builder values not applied: %+v", cfg)
	}
	if base.DBDriver != "duckdb" {
		t.Error("builder methods must not mutate the receiver")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(Config) Config
		wantField string
	}{
		{"empty url", func(c Config) Config { c.APIBaseURL = ""; return c }, "APIBaseURL"},
		{"zero timeout", func(c Config) Config { return c.WithHTTPTimeout(0) }, "HTTPTimeout"},
		{"zero page size", func(c Config) Config { return c.WithPageSize(0) }, "PageSize"},
		{"unknown driver", func(c Config) Config { return c.WithStore("mysql", "x") }, "DBDriver"},
		{"postgres without dsn", func(c Config) Config { return c.WithStore("postgres", "") }, "DBDSN"},
		{"cache disabled", func(c Config) Config { return c.WithStore("", "") }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.modify(DefaultConfig()).Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("Field = %s; want %s", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		EnvAPIURL:      "http://127.0.0.1:9000/api/v2",
		EnvDBDriver:    "sqlite3",
		EnvDBDSN:       "/tmp/poke.db",
		EnvPageSize:    "20",
		EnvHTTPTimeout: "3s",
		EnvPrefetch:    "true",
		EnvSpriteURL:   "http://127.0.0.1:9000/sprites/%d.png",
	}
	cfg, err := FromEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.APIBaseURL != env[EnvAPIURL] || cfg.DBDriver != "sqlite3" || cfg.DBDSN != "/tmp/poke.db" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if !cfg.Prefetch || cfg.SpriteURL != env[EnvSpriteURL] {
		t.Errorf("unexpected prefetch/sprite settings %+v", cfg)
	}
	if cfg.PageSize != 20 || cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("unexpected numeric values %+v", cfg)
	}
}

func TestFromEnvRejectsGarbage(t *testing.T) {
	for _, key := range []string{EnvPageSize, EnvHTTPTimeout, EnvSpriteURL, EnvPrefetch} {
		_, err := FromEnv(func(k string) (string, bool) {
			if k == key {
				return "not-a-number", true
			}
			return "", false
		})
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("%s: expected *ConfigError, got %v", key, err)
		}
	}
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("POKEDOKE_PAGE_SIZE=12\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPageSize, "")
	os.Unsetenv(EnvPageSize)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PageSize != 12 {
		t.Errorf("PageSize = %d; want 12", cfg.PageSize)
	}

	if _, err := Load(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing dotenv should be ignored, got %v", err)
	}
}
