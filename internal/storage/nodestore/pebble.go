package nodestore

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/LeJamon/goRippled/internal/types"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
	"github.com/cockroachdb/pebble/vfs"
)

// PebbleBackend stores entries in a PebbleDB instance.
type PebbleBackend struct {
	db     *pebble.DB
	config *Config
	open   int64
}

// NewPebbleBackend creates a PebbleDB backend. An empty path selects an
// in-memory filesystem.
func NewPebbleBackend(config *Config) (Backend, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return &PebbleBackend{config: config}, nil
}

// Name returns the name of this backend.
func (p *PebbleBackend) Name() string {
	if p.config.Path == "" {
		return "pebble(mem)"
	}
	return fmt.Sprintf("pebble(%s)", p.config.Path)
}

// Open opens the backend for use.
func (p *PebbleBackend) Open() error {
	if !atomic.CompareAndSwapInt64(&p.open, 0, 1) {
		return fmt.Errorf("backend already open")
	}

	opts := &pebble.Options{
		Levels: make([]pebble.LevelOptions, 7),
	}
	for i := range opts.Levels {
		opts.Levels[i] = pebble.LevelOptions{
			BlockSize:    32 << 10,
			FilterPolicy: bloom.FilterPolicy(10),
			FilterType:   pebble.TableFilter,
			// Values arrive already compressed.
			Compression: pebble.NoCompression,
		}
	}

	path := p.config.Path
	if path == "" {
		opts.FS = vfs.NewMem()
		path = "nodestore"
	} else if err := os.MkdirAll(path, 0755); err != nil {
		atomic.StoreInt64(&p.open, 0)
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		atomic.StoreInt64(&p.open, 0)
		return fmt.Errorf("failed to open PebbleDB at %s: %w", path, err)
	}
	p.db = db
	return nil
}

// Close closes the backend and releases resources.
func (p *PebbleBackend) Close() error {
	if !atomic.CompareAndSwapInt64(&p.open, 1, 0) {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}

func (p *PebbleBackend) isOpen() bool {
	return atomic.LoadInt64(&p.open) != 0
}

func (p *PebbleBackend) Get(key types.Hash256) ([]byte, error) {
	if !p.isOpen() {
		return nil, ErrBackendClosed
	}
	value, closer, err := p.db.Get(key[:])
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, newError("get", p.Name(), key, err)
	}
	defer closer.Close()
	return append([]byte(nil), value...), nil
}

func (p *PebbleBackend) Put(key types.Hash256, value []byte) error {
	if !p.isOpen() {
		return ErrBackendClosed
	}
	if err := p.db.Set(key[:], value, pebble.NoSync); err != nil {
		return newError("put", p.Name(), key, err)
	}
	return nil
}

func (p *PebbleBackend) Delete(key types.Hash256) error {
	if !p.isOpen() {
		return ErrBackendClosed
	}
	if err := p.db.Delete(key[:], pebble.NoSync); err != nil {
		return newError("delete", p.Name(), key, err)
	}
	return nil
}

func (p *PebbleBackend) Succ(key types.Hash256) (types.Hash256, bool, error) {
	if !p.isOpen() {
		return types.Hash256{}, false, ErrBackendClosed
	}
	lower, ok := nextKey(key)
	if !ok {
		return types.Hash256{}, false, nil
	}

	iter, err := p.db.NewIter(&pebble.IterOptions{LowerBound: lower[:]})
	if err != nil {
		return types.Hash256{}, false, newError("succ", p.Name(), key, err)
	}
	defer iter.Close()

	for valid := iter.First(); valid; valid = iter.Next() {
		if len(iter.Key()) != len(key) {
			continue
		}
		var found types.Hash256
		copy(found[:], iter.Key())
		return found, true, nil
	}
	return types.Hash256{}, false, iter.Error()
}

// Flush writes the memtable out to disk.
func (p *PebbleBackend) Flush() error {
	if !p.isOpen() {
		return ErrBackendClosed
	}
	return p.db.Flush()
}
