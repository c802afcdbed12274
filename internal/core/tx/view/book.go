package view

import (
	"github.com/LeJamon/goRippled/internal/types"
)

// Successor is implemented by bases that can iterate indexes in order.
type Successor interface {
	Succ(key types.Hash256) (types.Hash256, bool, error)
}

// Succ returns the first index after key and before end that holds a live
// entry, looking through both the base and the set. ok is false when there
// is none.
func (s *EntrySet) Succ(key, end types.Hash256) (next types.Hash256, ok bool) {
	// Entries created by this transaction are not in the base yet.
	for k, it := range s.items {
		if it.action != ActionCreate || k.Compare(key) <= 0 || k.Compare(end) >= 0 {
			continue
		}
		if !ok || k.Compare(next) < 0 {
			next, ok = k, true
		}
	}

	succ, isSucc := s.base.(Successor)
	if !isSucc {
		return next, ok
	}
	cur := key
	for {
		k, found, err := succ.Succ(cur)
		if err != nil {
			panic(&ReadError{Key: cur, Err: err})
		}
		if !found || k.Compare(end) >= 0 || (ok && k.Compare(next) >= 0) {
			return next, ok
		}
		if s.Has(k) != ActionDelete {
			return k, true
		}
		cur = k
	}
}
