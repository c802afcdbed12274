// Package ledger holds the account state a transaction is applied to.
package ledger

import (
	"fmt"
	"sync"

	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/types"
	"github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const defaultCacheSize = 4096

// TxRecord is a transaction recorded in the ledger's transaction set.
type TxRecord struct {
	ID     types.Hash256
	Type   string
	Result string
	Raw    []byte
}

// Ledger is one ledger's state. Entries live in the backing Store; decoded
// copies are kept in an LRU cache. Readers always receive their own copy.
//
// Transaction application serializes on the ledger with Lock/Unlock.
type Ledger struct {
	mu sync.Mutex

	seq   uint32
	store Store
	cache *lru.Cache[types.Hash256, entry.Entry]
	loads singleflight.Group

	txMu  sync.RWMutex
	txs   map[types.Hash256]TxRecord
	order []types.Hash256

	// open ledgers are not yet closed; standalone tooling runs against
	// an open ledger.
	open bool
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithSequence sets the ledger sequence.
func WithSequence(seq uint32) Option {
	return func(l *Ledger) { l.seq = seq }
}

// WithOpen marks the ledger as open.
func WithOpen(open bool) Option {
	return func(l *Ledger) { l.open = open }
}

// New returns a ledger over store with a read cache of cacheSize entries
// (a default when cacheSize <= 0).
func New(store Store, cacheSize int, opts ...Option) (*Ledger, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[types.Hash256, entry.Entry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry cache: %w", err)
	}
	l := &Ledger{
		seq:   1,
		store: store,
		cache: cache,
		txs:   make(map[types.Hash256]TxRecord),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Lock acquires the ledger for applying a transaction.
func (l *Ledger) Lock() { l.mu.Lock() }

// Unlock releases the ledger.
func (l *Ledger) Unlock() { l.mu.Unlock() }

func (l *Ledger) Sequence() uint32 { return l.seq }

func (l *Ledger) IsOpen() bool { return l.open }

// Read returns a copy of the entry at key, or nil if there is none.
func (l *Ledger) Read(key types.Hash256) (entry.Entry, error) {
	if e, ok := l.cache.Get(key); ok {
		return e.Clone(), nil
	}

	v, err, _ := l.loads.Do(string(key[:]), func() (interface{}, error) {
		data, err := l.store.Get(key)
		if isNotFound(err) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read entry %s: %w", key, err)
		}
		e, err := entry.Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode entry %s: %w", key, err)
		}
		l.cache.Add(key, e)
		return e, nil
	})
	if err != nil || v == nil {
		return nil, err
	}
	return v.(entry.Entry).Clone(), nil
}

// Write stores e at key, replacing any existing entry.
func (l *Ledger) Write(key types.Hash256, e entry.Entry) error {
	data, err := entry.Marshal(e)
	if err != nil {
		return err
	}
	if err := l.store.Put(key, data); err != nil {
		return fmt.Errorf("failed to write entry %s: %w", key, err)
	}
	l.cache.Add(key, e.Clone())
	return nil
}

// Erase removes the entry at key.
func (l *Ledger) Erase(key types.Hash256) error {
	l.cache.Remove(key)
	if err := l.store.Delete(key); err != nil {
		return fmt.Errorf("failed to erase entry %s: %w", key, err)
	}
	return nil
}

// Succ returns the first index after key that holds an entry.
func (l *Ledger) Succ(key types.Hash256) (types.Hash256, bool, error) {
	return l.store.Succ(key)
}

// HasTx reports whether id was applied to this ledger.
func (l *Ledger) HasTx(id types.Hash256) bool {
	l.txMu.RLock()
	defer l.txMu.RUnlock()
	_, ok := l.txs[id]
	return ok
}

// AddTx records an applied transaction.
func (l *Ledger) AddTx(rec TxRecord) {
	l.txMu.Lock()
	defer l.txMu.Unlock()
	if _, ok := l.txs[rec.ID]; !ok {
		l.order = append(l.order, rec.ID)
	}
	l.txs[rec.ID] = rec
}

// Transactions returns the applied transactions in application order.
func (l *Ledger) Transactions() []TxRecord {
	l.txMu.RLock()
	defer l.txMu.RUnlock()
	out := make([]TxRecord, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.txs[id])
	}
	return out
}
