package nodestore

import (
	"context"
	"fmt"

	"github.com/LeJamon/goRippled/internal/storage/nodestore/compression"
	"github.com/LeJamon/goRippled/internal/types"
)

// Database layers compression over a Backend.
type Database struct {
	backend    Backend
	compressor compression.Compressor
}

// New validates config, then creates and opens its backend.
func New(ctx context.Context, config *Config) (*Database, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compressor, err := compression.Get(config.Compressor)
	if err != nil {
		return nil, fmt.Errorf("failed to get compressor %s: %w", config.Compressor, err)
	}
	backend, err := CreateBackend(config.Backend, config)
	if err != nil {
		return nil, err
	}
	if err := backend.Open(); err != nil {
		return nil, fmt.Errorf("failed to open backend %s: %w", backend.Name(), err)
	}
	return &Database{backend: backend, compressor: compressor}, nil
}

// Name describes the backend and compression in use.
func (d *Database) Name() string {
	return fmt.Sprintf("%s+%s", d.backend.Name(), d.compressor.Name())
}

// Fetch returns the bytes stored under key, or ErrNotFound.
func (d *Database) Fetch(key types.Hash256) ([]byte, error) {
	raw, err := d.backend.Get(key)
	if err != nil {
		return nil, err
	}
	data, err := d.compressor.Decompress(raw)
	if err != nil {
		return nil, newError("fetch", d.backend.Name(), key, fmt.Errorf("%w: %v", ErrDataCorrupt, err))
	}
	return data, nil
}

// Store writes data under key.
func (d *Database) Store(key types.Hash256, data []byte) error {
	raw, err := d.compressor.Compress(data)
	if err != nil {
		return newError("store", d.backend.Name(), key, err)
	}
	return d.backend.Put(key, raw)
}

// Remove deletes key. Removing an absent key is not an error.
func (d *Database) Remove(key types.Hash256) error {
	return d.backend.Delete(key)
}

// Successor returns the smallest stored key greater than key.
func (d *Database) Successor(key types.Hash256) (types.Hash256, bool, error) {
	return d.backend.Succ(key)
}

// Sync flushes pending writes.
func (d *Database) Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.backend.Flush()
}

// Close closes the backend.
func (d *Database) Close() error {
	return d.backend.Close()
}
