// Package config holds the runtime settings of the Pokédex client.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvAPIURL      = "POKEDOKE_API_URL"
	EnvDBDriver    = "POKEDOKE_DB_DRIVER"
	EnvDBDSN       = "POKEDOKE_DB_DSN"
	EnvPageSize    = "POKEDOKE_PAGE_SIZE"
	EnvLogFile     = "POKEDOKE_LOG_FILE"
	EnvHTTPTimeout = "POKEDOKE_HTTP_TIMEOUT"
	EnvSpriteURL   = "POKEDOKE_SPRITE_URL"
	EnvPrefetch    = "POKEDOKE_PREFETCH"
)

// Config contains configurable parameters for the client.
// Use DefaultConfig() to get sensible defaults, then override as needed.
type Config struct {
	// Upstream
	APIBaseURL  string        // PokeAPI root (default: "https://pokeapi.co/api/v2")
	HTTPTimeout time.Duration // Per-request timeout for API and sprite calls (default: 10s)
	SpriteURL   string        // Artwork URL pattern with one %d for the id; empty keeps the official artwork

	// Listing
	PageSize int // Number of summaries fetched for the list screen (default: 60)

	// Cache store
	DBDriver string // "duckdb", "sqlite3", "postgres" or "" to disable (default: "duckdb")
	DBDSN    string // Driver-specific DSN (default: ":memory:")
	Prefetch bool   // Warm the cache with the first page of details in the background (default: false)

	// Diagnostics
	LogFile string // Debug log destination (default: "pokedoke.log")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		APIBaseURL:  "https://pokeapi.co/api/v2",
		HTTPTimeout: 10 * time.Second,
		PageSize:    60,
		DBDriver:    "duckdb",
		DBDSN:       ":memory:",
		LogFile:     "pokedoke.log",
	}
}

// WithAPIBaseURL returns a copy of the config with a different API root.
func (c Config) WithAPIBaseURL(url string) Config {
	c.APIBaseURL = strings.TrimRight(url, "/")
	return c
}

// WithStore returns a copy of the config using the given cache driver and DSN.
func (c Config) WithStore(driver, dsn string) Config {
	c.DBDriver = driver
	c.DBDSN = dsn
	return c
}

// WithPageSize returns a copy of the config with a different list size.
func (c Config) WithPageSize(n int) Config {
	c.PageSize = n
	return c
}

// WithHTTPTimeout returns a copy of the config with a different request timeout.
func (c Config) WithHTTPTimeout(d time.Duration) Config {
	c.HTTPTimeout = d
	return c
}

// WithLogFile returns a copy of the config logging to path.
func (c Config) WithLogFile(path string) Config {
	c.LogFile = path
	return c
}

// Validate checks if the configuration is valid and returns an error if not.
func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return &ConfigError{Field: "APIBaseURL", Message: "must not be empty"}
	}
	if c.SpriteURL != "" && strings.Count(c.SpriteURL, "%d") != 1 {
		return &ConfigError{Field: "SpriteURL", Message: "must contain exactly one %d"}
	}
	if c.HTTPTimeout <= 0 {
		return &ConfigError{Field: "HTTPTimeout", Message: "must be positive"}
	}
	if c.PageSize <= 0 {
		return &ConfigError{Field: "PageSize", Message: "must be positive"}
	}
	switch c.DBDriver {
	case "", "duckdb", "sqlite3", "postgres":
	default:
		return &ConfigError{Field: "DBDriver", Message: fmt.Sprintf("unsupported driver %q", c.DBDriver)}
	}
	if c.DBDriver == "postgres" && c.DBDSN == "" {
		return &ConfigError{Field: "DBDSN", Message: "required for postgres"}
	}
	return nil
}

// CacheEnabled reports whether a cache store should be opened.
func (c Config) CacheEnabled() bool {
	return c.DBDriver != ""
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}

// Load reads an optional dotenv file (missing files are ignored), then
// overlays POKEDOKE_* environment variables on the defaults. Pass no paths
// to read ".env" from the working directory.
func Load(paths ...string) (Config, error) {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function such as os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()

	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		cfg = cfg.WithAPIBaseURL(v)
	}
	if v, ok := lookup(EnvSpriteURL); ok {
		cfg.SpriteURL = v
	}
	if v, ok := lookup(EnvDBDriver); ok {
		cfg.DBDriver = strings.TrimSpace(v)
		if cfg.DBDriver != "duckdb" {
			cfg.DBDSN = ""
		}
	}
	if v, ok := lookup(EnvDBDSN); ok {
		cfg.DBDSN = v
	}
	if v, ok := lookup(EnvPageSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, &ConfigError{Field: "PageSize", Message: "must be an integer"}
		}
		cfg.PageSize = n
	}
	if v, ok := lookup(EnvPrefetch); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, &ConfigError{Field: "Prefetch", Message: "must be a boolean"}
		}
		cfg.Prefetch = b
	}
	if v, ok := lookup(EnvLogFile); ok {
		cfg.LogFile = v
	}
	if v, ok := lookup(EnvHTTPTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, &ConfigError{Field: "HTTPTimeout", Message: "must be a duration"}
		}
		cfg.HTTPTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
