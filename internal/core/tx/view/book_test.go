package view

import (
	"sort"
	"testing"

	"github.com/LeJamon/goRippled/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderedBase adds key order to mapBase.
type orderedBase struct {
	*mapBase
}

func (b orderedBase) Succ(key types.Hash256) (types.Hash256, bool, error) {
	keys := make([]types.Hash256, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Compare(keys[j]) < 0 })
	for _, k := range keys {
		if k.Compare(key) > 0 {
			return k, true, nil
		}
	}
	return types.Hash256{}, false, nil
}

func TestSucc(t *testing.T) {
	b := newMapBase()
	for _, n := range []byte{2, 4, 6} {
		id := types.AccountID{n}
		b.put(types.Hash256{n}, rootAt(id, 1))
	}
	s := New(orderedBase{b}, newSet(b).Fees())
	end := types.Hash256{0xF0}

	next, ok := s.Succ(types.Hash256{1}, end)
	require.True(t, ok)
	assert.Equal(t, types.Hash256{2}, next)

	// A deletion in the set hides the base entry.
	s.EntryDelete(types.Hash256{2}, s.Peek(types.Hash256{2}))
	next, ok = s.Succ(types.Hash256{1}, end)
	require.True(t, ok)
	assert.Equal(t, types.Hash256{4}, next)

	// A creation in the set is visible before it reaches the base.
	s.EntryCreate(types.Hash256{3}, rootAt(types.AccountID{3}, 1))
	next, ok = s.Succ(types.Hash256{1}, end)
	require.True(t, ok)
	assert.Equal(t, types.Hash256{3}, next)

	_, ok = s.Succ(types.Hash256{4}, types.Hash256{6})
	assert.False(t, ok)

	_, ok = s.Succ(types.Hash256{6}, end)
	assert.False(t, ok)
}

func TestSuccUnorderedBase(t *testing.T) {
	b := newMapBase()
	b.put(types.Hash256{2}, rootAt(types.AccountID{2}, 1))
	s := newSet(b)

	_, ok := s.Succ(types.Hash256{}, types.Hash256{0xF0})
	assert.False(t, ok)

	s.EntryCreate(types.Hash256{5}, rootAt(types.AccountID{5}, 1))
	next, ok := s.Succ(types.Hash256{}, types.Hash256{0xF0})
	require.True(t, ok)
	assert.Equal(t, types.Hash256{5}, next)
}
