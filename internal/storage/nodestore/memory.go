package nodestore

import (
	"sort"
	"sync"

	"github.com/LeJamon/goRippled/internal/types"
)

// MemoryBackend keeps everything in a map. Succ sorts the keys on demand,
// which is fine for tests and fixture-sized ledgers.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[types.Hash256][]byte
	open bool
}

func NewMemoryBackend(_ *Config) (Backend, error) {
	return &MemoryBackend{}, nil
}

func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[types.Hash256][]byte)
	}
	m.open = true
	return nil
}

func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	return nil
}

func (m *MemoryBackend) Get(key types.Hash256) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.open {
		return nil, ErrBackendClosed
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBackend) Put(key types.Hash256, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return ErrBackendClosed
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBackend) Delete(key types.Hash256) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return ErrBackendClosed
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryBackend) Succ(key types.Hash256) (types.Hash256, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.open {
		return types.Hash256{}, false, ErrBackendClosed
	}

	keys := make([]types.Hash256, 0, len(m.data))
	for k := range m.data {
		if k.Compare(key) > 0 {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return types.Hash256{}, false, nil
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Compare(keys[j]) < 0 })
	return keys[0], true, nil
}

func (m *MemoryBackend) Flush() error { return nil }
