package nodestore

import (
	"errors"
	"fmt"
	"sync"

	"github.com/LeJamon/goRippled/internal/types"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBBackend stores entries in goleveldb.
type LevelDBBackend struct {
	mu     sync.RWMutex
	db     *leveldb.DB
	config *Config
}

// NewLevelDBBackend creates a goleveldb backend. An empty path selects
// in-memory storage.
func NewLevelDBBackend(config *Config) (Backend, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return &LevelDBBackend{config: config}, nil
}

func (l *LevelDBBackend) Name() string {
	if l.config.Path == "" {
		return "leveldb(mem)"
	}
	return fmt.Sprintf("leveldb(%s)", l.config.Path)
}

func (l *LevelDBBackend) Open() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db != nil {
		return fmt.Errorf("backend already open")
	}

	o := &opt.Options{Compression: opt.NoCompression}
	var (
		db  *leveldb.DB
		err error
	)
	if l.config.Path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), o)
	} else {
		db, err = leveldb.OpenFile(l.config.Path, o)
	}
	if err != nil {
		return fmt.Errorf("failed to open leveldb: %w", err)
	}
	l.db = db
	return nil
}

func (l *LevelDBBackend) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

func (l *LevelDBBackend) handle() (*leveldb.DB, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.db == nil {
		return nil, ErrBackendClosed
	}
	return l.db, nil
}

func (l *LevelDBBackend) Get(key types.Hash256) ([]byte, error) {
	db, err := l.handle()
	if err != nil {
		return nil, err
	}
	value, err := db.Get(key[:], nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, newError("get", l.Name(), key, err)
	}
	return value, nil
}

func (l *LevelDBBackend) Put(key types.Hash256, value []byte) error {
	db, err := l.handle()
	if err != nil {
		return err
	}
	if err := db.Put(key[:], value, nil); err != nil {
		return newError("put", l.Name(), key, err)
	}
	return nil
}

func (l *LevelDBBackend) Delete(key types.Hash256) error {
	db, err := l.handle()
	if err != nil {
		return err
	}
	if err := db.Delete(key[:], nil); err != nil {
		return newError("delete", l.Name(), key, err)
	}
	return nil
}

func (l *LevelDBBackend) Succ(key types.Hash256) (types.Hash256, bool, error) {
	db, err := l.handle()
	if err != nil {
		return types.Hash256{}, false, err
	}
	start, ok := nextKey(key)
	if !ok {
		return types.Hash256{}, false, nil
	}

	iter := db.NewIterator(&util.Range{Start: start[:]}, nil)
	defer iter.Release()
	for iter.Next() {
		if len(iter.Key()) != len(key) {
			continue
		}
		var found types.Hash256
		copy(found[:], iter.Key())
		return found, true, nil
	}
	return types.Hash256{}, false, iter.Error()
}

// Flush is a no-op: goleveldb writes through its journal on every Put.
func (l *LevelDBBackend) Flush() error {
	_, err := l.handle()
	return err
}
