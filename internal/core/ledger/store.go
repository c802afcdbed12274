package ledger

import (
	"errors"

	"github.com/LeJamon/goRippled/internal/storage/nodestore"
	"github.com/LeJamon/goRippled/internal/types"
)

// ErrNotFound is returned by a Store for an absent key.
var ErrNotFound = nodestore.ErrNotFound

// Store is the backing state of a ledger: encoded entries by index, with
// ordered iteration.
type Store interface {
	Get(key types.Hash256) ([]byte, error)
	Put(key types.Hash256, data []byte) error
	Delete(key types.Hash256) error
	Succ(key types.Hash256) (types.Hash256, bool, error)
}

type nodeStore struct {
	db *nodestore.Database
}

// NodeStore adapts a nodestore database to a ledger Store.
func NodeStore(db *nodestore.Database) Store {
	return nodeStore{db: db}
}

func (s nodeStore) Get(key types.Hash256) ([]byte, error) { return s.db.Fetch(key) }

func (s nodeStore) Put(key types.Hash256, data []byte) error { return s.db.Store(key, data) }

func (s nodeStore) Delete(key types.Hash256) error { return s.db.Remove(key) }

func (s nodeStore) Succ(key types.Hash256) (types.Hash256, bool, error) {
	return s.db.Successor(key)
}

func isNotFound(err error) bool {
	return errors.Is(err, nodestore.ErrNotFound)
}
