// Package view is the transactional overlay a transaction is applied
// through. An EntrySet caches entries read from the ledger, tracks what the
// transaction created, modified and deleted, and writes the result back in
// one step. It also carries the directory and trust line primitives every
// transactor builds on.
package view

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/LeJamon/goRippled/internal/core/ledger"
	"github.com/LeJamon/goRippled/internal/core/ledger/entry"
	"github.com/LeJamon/goRippled/internal/types"
)

// DefaultDirNodeMax is the number of indexes one directory page holds.
const DefaultDirNodeMax = 32

// Action is what the transaction did to an entry.
type Action int

const (
	// ActionNone means the entry is not in the set.
	ActionNone Action = iota
	// ActionCached means the entry was read but not changed.
	ActionCached
	// ActionCreate means the entry is new.
	ActionCreate
	// ActionModify means an existing entry was changed.
	ActionModify
	// ActionDelete means an existing entry is removed.
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionCached:
		return "cached"
	case ActionCreate:
		return "create"
	case ActionModify:
		return "modify"
	case ActionDelete:
		return "delete"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ErrRead is wrapped by the panic value raised when the underlying ledger
// cannot be read. Appliers recover it and fail the transaction.
var ErrRead = errors.New("ledger read failed")

// ReadError is the panic value for a failed ledger read.
type ReadError struct {
	Key types.Hash256
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrRead, e.Key, e.Err)
}

func (e *ReadError) Unwrap() []error { return []error{ErrRead, e.Err} }

// Base is the ledger an EntrySet reads through to.
type Base interface {
	Read(key types.Hash256) (entry.Entry, error)
}

// Writer receives the changes of a committed EntrySet.
type Writer interface {
	Write(key types.Hash256, e entry.Entry) error
	Erase(key types.Hash256) error
}

type item struct {
	entry  entry.Entry
	action Action
	seq    uint64
}

// seqSource hands out generation numbers. Items whose generation differs
// from their set's are shared with another set and get copied on first
// access.
var seqSource atomic.Uint64

func nextSeq() uint64 { return seqSource.Add(1) }

// EntrySet is a copy-on-read overlay over a Base. It is confined to the
// goroutine applying one transaction.
type EntrySet struct {
	base       Base
	fees       ledger.Fees
	items      map[types.Hash256]item
	seq        uint64
	dirNodeMax int
}

// Option configures an EntrySet.
type Option func(*EntrySet)

// WithDirNodeMax sets how many indexes one directory page holds.
func WithDirNodeMax(n int) Option {
	return func(s *EntrySet) {
		if n > 0 {
			s.dirNodeMax = n
		}
	}
}

// New returns an empty overlay over base. fees supplies the account reserve
// used when computing spendable native balances.
func New(base Base, fees ledger.Fees, opts ...Option) *EntrySet {
	s := &EntrySet{
		base:       base,
		fees:       fees,
		items:      make(map[types.Hash256]item),
		seq:        nextSeq(),
		dirNodeMax: DefaultDirNodeMax,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fees returns the fee schedule the set was built with.
func (s *EntrySet) Fees() ledger.Fees { return s.fees }

// DirNodeMax returns the directory page capacity.
func (s *EntrySet) DirNodeMax() int { return s.dirNodeMax }

// Duplicate returns an independent copy of the set. Entries are shared until
// either side touches them.
func (s *EntrySet) Duplicate() *EntrySet {
	dup := &EntrySet{
		base:       s.base,
		fees:       s.fees,
		items:      make(map[types.Hash256]item, len(s.items)),
		seq:        nextSeq(),
		dirNodeMax: s.dirNodeMax,
	}
	for k, it := range s.items {
		dup.items[k] = it
	}
	// Entries now shared with dup must be copied before s mutates them.
	s.seq = nextSeq()
	return dup
}

// SetTo makes s a copy of o. o stays usable.
func (s *EntrySet) SetTo(o *EntrySet) {
	s.base = o.base
	s.fees = o.fees
	s.dirNodeMax = o.dirNodeMax
	s.items = make(map[types.Hash256]item, len(o.items))
	for k, it := range o.items {
		s.items[k] = it
	}
	s.seq = nextSeq()
	o.seq = nextSeq()
}

// Swap exchanges the contents of s and o.
func (s *EntrySet) Swap(o *EntrySet) {
	*s, *o = *o, *s
}

// Clear drops every tracked entry.
func (s *EntrySet) Clear() {
	s.items = make(map[types.Hash256]item)
}

// Len returns the number of tracked entries.
func (s *EntrySet) Len() int { return len(s.items) }

// Has returns what the set did to key.
func (s *EntrySet) Has(key types.Hash256) Action {
	it, ok := s.items[key]
	if !ok {
		return ActionNone
	}
	return it.action
}

// get returns the tracked entry for key, copying it first if it is shared
// with another set.
func (s *EntrySet) get(key types.Hash256) (entry.Entry, Action) {
	it, ok := s.items[key]
	if !ok {
		return nil, ActionNone
	}
	if it.seq != s.seq {
		it.entry = it.entry.Clone()
		it.seq = s.seq
		s.items[key] = it
	}
	return it.entry, it.action
}

// Peek returns the entry at key, reading it from the ledger on first use.
// It returns nil when there is no such entry or it was deleted. The
// returned entry belongs to the set: callers change it and then call
// EntryModify.
func (s *EntrySet) Peek(key types.Hash256) entry.Entry {
	if key.IsZero() {
		return nil
	}
	e, action := s.get(key)
	switch action {
	case ActionDelete:
		return nil
	case ActionNone:
	default:
		return e
	}

	e, err := s.base.Read(key)
	if err != nil {
		panic(&ReadError{Key: key, Err: err})
	}
	if e == nil {
		return nil
	}
	s.EntryCache(key, e)
	return e
}

// EntryCache records e as read but unchanged.
func (s *EntrySet) EntryCache(key types.Hash256, e entry.Entry) {
	it, ok := s.items[key]
	if !ok {
		s.items[key] = item{entry: e, action: ActionCached, seq: s.seq}
		return
	}
	if it.action != ActionCached {
		panic(fmt.Sprintf("view: cache of %s after %s", key, it.action))
	}
	s.items[key] = item{entry: e, action: ActionCached, seq: s.seq}
}

// EntryCreate records e as a new entry.
func (s *EntrySet) EntryCreate(key types.Hash256, e entry.Entry) {
	if key.IsZero() {
		panic("view: create at zero index")
	}
	if it, ok := s.items[key]; ok {
		panic(fmt.Sprintf("view: create of %s after %s", key, it.action))
	}
	s.items[key] = item{entry: e, action: ActionCreate, seq: s.seq}
}

// EntryModify records e as changed.
func (s *EntrySet) EntryModify(key types.Hash256, e entry.Entry) {
	it, ok := s.items[key]
	if !ok {
		s.items[key] = item{entry: e, action: ActionModify, seq: s.seq}
		return
	}
	switch it.action {
	case ActionCached:
		it.action = ActionModify
	case ActionModify, ActionCreate:
	case ActionDelete:
		panic(fmt.Sprintf("view: modify of deleted %s", key))
	default:
		panic(fmt.Sprintf("view: modify of %s in unknown state %s", key, it.action))
	}
	it.entry = e
	it.seq = s.seq
	s.items[key] = it
}

// EntryDelete records the entry at key as removed. Deleting an entry created
// by this set forgets it.
func (s *EntrySet) EntryDelete(key types.Hash256, e entry.Entry) {
	it, ok := s.items[key]
	if !ok {
		s.items[key] = item{entry: e, action: ActionDelete, seq: s.seq}
		return
	}
	switch it.action {
	case ActionCached, ActionModify:
		s.items[key] = item{entry: e, action: ActionDelete, seq: s.seq}
	case ActionCreate:
		delete(s.items, key)
	case ActionDelete:
	default:
		panic(fmt.Sprintf("view: delete of %s in unknown state %s", key, it.action))
	}
}

// Change is one entry a committed set writes or removes.
type Change struct {
	Key    types.Hash256
	Action Action
	Entry  entry.Entry
}

// Changes lists the created, modified and deleted entries in index order.
func (s *EntrySet) Changes() []Change {
	out := make([]Change, 0, len(s.items))
	for k, it := range s.items {
		if it.action == ActionCached {
			continue
		}
		out = append(out, Change{Key: k, Action: it.action, Entry: it.entry})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Compare(out[j].Key) < 0 })
	return out
}

// Commit writes every change to w.
func (s *EntrySet) Commit(w Writer) error {
	for _, c := range s.Changes() {
		var err error
		switch c.Action {
		case ActionCreate, ActionModify:
			err = w.Write(c.Key, c.Entry)
		case ActionDelete:
			err = w.Erase(c.Key)
		default:
			panic(fmt.Sprintf("view: commit of %s in state %s", c.Key, c.Action))
		}
		if err != nil {
			return fmt.Errorf("failed to commit %s %s: %w", c.Action, c.Key, err)
		}
	}
	return nil
}

// AccountRoot returns the account root of id, or nil.
func (s *EntrySet) AccountRoot(id types.AccountID) *entry.AccountRoot {
	e := s.Peek(accountKey(id))
	if e == nil {
		return nil
	}
	return mustBe[*entry.AccountRoot](e)
}

// RippleState returns the trust line between a and b in currency, or nil.
func (s *EntrySet) RippleState(a, b types.AccountID, currency types.Currency) *entry.RippleState {
	e := s.Peek(lineKey(a, b, currency))
	if e == nil {
		return nil
	}
	return mustBe[*entry.RippleState](e)
}

// Offer returns the offer at key, or nil.
func (s *EntrySet) Offer(key types.Hash256) *entry.Offer {
	e := s.Peek(key)
	if e == nil {
		return nil
	}
	return mustBe[*entry.Offer](e)
}

// DirNode returns the directory page at key, or nil.
func (s *EntrySet) DirNode(key types.Hash256) *entry.DirectoryNode {
	e := s.Peek(key)
	if e == nil {
		return nil
	}
	return mustBe[*entry.DirectoryNode](e)
}

// mustBe asserts the type of an entry found at an index derived for that
// type. A mismatch means the ledger is corrupt.
func mustBe[T entry.Entry](e entry.Entry) T {
	v, ok := e.(T)
	if !ok {
		var want T
		panic(fmt.Sprintf("view: expected %T, found %s", want, e.Type()))
	}
	return v
}
