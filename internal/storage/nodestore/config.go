package nodestore

import (
	"fmt"

	"github.com/LeJamon/goRippled/internal/storage/nodestore/compression"
)

// Config holds configuration options for the NodeStore.
type Config struct {
	// Backend is one of the registered backend names.
	Backend string

	// Path is the data directory. Persistent backends open an in-memory
	// filesystem when it is empty.
	Path string

	// Compressor names a registered compression algorithm.
	Compressor string
}

// DefaultConfig returns an in-memory configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend:    "memory",
		Compressor: "none",
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Backend == "" {
		return fmt.Errorf("%w: backend must be specified", ErrInvalidConfig)
	}
	if !IsBackendAvailable(c.Backend) {
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}
	if !compression.IsAvailable(c.Compressor) {
		return fmt.Errorf("%w: unsupported compressor %q", ErrInvalidConfig, c.Compressor)
	}
	return nil
}

// Option represents a functional option for configuring the NodeStore.
type Option func(*Config)

// WithPath sets the storage path.
func WithPath(path string) Option {
	return func(c *Config) {
		c.Path = path
	}
}

// WithBackend sets the storage backend.
func WithBackend(backend string) Option {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithCompression sets the compression algorithm.
func WithCompression(compressor string) Option {
	return func(c *Config) {
		c.Compressor = compressor
	}
}

// ApplyOptions applies the given options to the config.
func (c *Config) ApplyOptions(options ...Option) {
	for _, option := range options {
		option(c)
	}
}
