// Package relational provides the SQL-backed cache of Pokémon summaries and
// details. DuckDB is the default engine; SQLite and Postgres are accepted
// through the same database/sql surface.
package relational

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"              // Register Postgres driver
	_ "github.com/marcboeker/go-duckdb" // Register DuckDB driver
	_ "github.com/mattn/go-sqlite3"     // Register SQLite driver
)

// Supported driver names.
const (
	DriverDuckDB   = "duckdb"
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// =============================================================================
// DATABASE CLIENT
// =============================================================================

// DatabaseConfig holds configuration options for the database.
type DatabaseConfig struct {
	Threads       int           // Number of threads for DuckDB (0 = default)
	MemoryLimitGB int           // Memory limit in GB for DuckDB (0 = default)
	Timeout       time.Duration // Connect/ping timeout (0 = no timeout)
}

// Client manages the physical connection to the cache database.
type Client struct {
	db     *sql.DB
	driver string
	config DatabaseConfig
}

// Option configures the client.
type Option func(*Client)

// WithThreads sets the number of DuckDB threads.
func WithThreads(n int) Option {
	return func(c *Client) {
		c.config.Threads = n
	}
}

// WithMemoryLimit sets the DuckDB memory limit in GB.
func WithMemoryLimit(gb int) Option {
	return func(c *Client) {
		c.config.MemoryLimitGB = gb
	}
}

// WithTimeout sets the connect timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.config.Timeout = d
	}
}

// Open connects to driver using dsn. For duckdb and sqlite3 an empty dsn
// means an in-memory database.
func Open(driver, dsn string, opts ...Option) (*Client, error) {
	client := &Client{driver: driver}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	switch driver {
	case DriverDuckDB, DriverSQLite:
		if dsn == "" {
			dsn = ":memory:"
		}
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres dsn required")
		}
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}

	ctx := context.Background()
	if client.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, client.config.Timeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}

	// Embedded engines keep an in-memory database per connection.
	if driver != DriverPostgres {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	client.db = db
	if err := client.configure(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure %s: %w", driver, err)
	}
	return client, nil
}

// OpenInMemory opens an in-memory DuckDB cache.
func OpenInMemory(opts ...Option) (*Client, error) {
	return Open(DriverDuckDB, ":memory:", opts...)
}

func (c *Client) configure() error {
	if c.driver != DriverDuckDB {
		return nil
	}
	if c.config.Threads > 0 {
		if _, err := c.db.Exec(fmt.Sprintf("PRAGMA threads=%d", c.config.Threads)); err != nil {
			return fmt.Errorf("setting threads: %w", err)
		}
	}
	if c.config.MemoryLimitGB > 0 {
		if _, err := c.db.Exec(fmt.Sprintf("PRAGMA memory_limit='%dGB'", c.config.MemoryLimitGB)); err != nil {
			return fmt.Errorf("setting memory limit: %w", err)
		}
	}
	return nil
}

// DB returns the underlying sql.DB instance.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Driver returns the driver name the client was opened with.
func (c *Client) Driver() string {
	return c.driver
}

// Close releases database resources.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// rebind rewrites '?' placeholders into the driver's native form.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
