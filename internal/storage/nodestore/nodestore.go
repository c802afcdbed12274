// Package nodestore persists ledger entries keyed by their 256-bit index.
// Keys are kept in order so that callers can walk a key range with Succ,
// which is how order book pages are found by quality.
package nodestore

import (
	"github.com/LeJamon/goRippled/internal/types"
)

// Backend is an ordered key/value store.
type Backend interface {
	// Name returns a short human-readable description.
	Name() string

	Open() error
	Close() error

	// Get returns the stored bytes for key, or ErrNotFound.
	Get(key types.Hash256) ([]byte, error)
	Put(key types.Hash256, value []byte) error
	Delete(key types.Hash256) error

	// Succ returns the smallest stored key strictly greater than key.
	Succ(key types.Hash256) (types.Hash256, bool, error)

	// Flush forces pending writes to durable storage.
	Flush() error
}

// nextKey returns the smallest key greater than k and whether one exists.
func nextKey(k types.Hash256) (types.Hash256, bool) {
	for i := len(k) - 1; i >= 0; i-- {
		k[i]++
		if k[i] != 0 {
			return k, true
		}
	}
	return k, false
}
