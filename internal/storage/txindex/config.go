package txindex

import (
	"fmt"
	"time"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains the index database settings
type Config struct {
	// Driver is DriverSQLite or DriverPostgres.
	Driver string
	// DSN is a file path for sqlite and a connection string for postgres.
	DSN string

	MaxOpenConns   int
	DefaultTimeout time.Duration
}

// NewConfig returns a configuration with sensible defaults
func NewConfig(driver, dsn string) *Config {
	c := &Config{
		Driver:         driver,
		DSN:            dsn,
		MaxOpenConns:   10,
		DefaultTimeout: 30 * time.Second,
	}
	if driver == DriverSQLite {
		// One writer at a time avoids SQLITE_BUSY on the shared file.
		c.MaxOpenConns = 1
	}
	return c
}

// Validate checks the configuration
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDriver, c.Driver)
	}
	if c.DSN == "" {
		return ErrMissingDSN
	}
	if c.MaxOpenConns < 0 {
		return ErrInvalidMaxOpenConns
	}
	if c.DefaultTimeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
