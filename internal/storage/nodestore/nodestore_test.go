package nodestore

import (
	"bytes"
	"context"
	"testing"

	"github.com/LeJamon/goRippled/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAll(t *testing.T) map[string]*Database {
	t.Helper()
	dbs := map[string]*Database{}
	for _, backend := range AvailableBackends() {
		for _, comp := range []string{"none", "lz4"} {
			cfg := DefaultConfig()
			cfg.ApplyOptions(WithBackend(backend), WithCompression(comp))
			db, err := New(context.Background(), cfg)
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })
			dbs[backend+"/"+comp] = db
		}
	}
	return dbs
}

func TestBackendsRegistered(t *testing.T) {
	assert.Equal(t, []string{"leveldb", "memory", "pebble"}, AvailableBackends())
}

func TestStoreFetchRemove(t *testing.T) {
	for name, db := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			key := types.Hash256{1, 2, 3}
			value := bytes.Repeat([]byte("ledger entry "), 20)

			_, err := db.Fetch(key)
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, db.Store(key, value))
			got, err := db.Fetch(key)
			require.NoError(t, err)
			assert.Equal(t, value, got)

			require.NoError(t, db.Store(key, []byte{9}))
			got, err = db.Fetch(key)
			require.NoError(t, err)
			assert.Equal(t, []byte{9}, got)

			require.NoError(t, db.Remove(key))
			_, err = db.Fetch(key)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.NoError(t, db.Remove(key))

			assert.NoError(t, db.Sync(context.Background()))
		})
	}
}

func TestSuccessor(t *testing.T) {
	for name, db := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			keys := []types.Hash256{{0x10}, {0x20}, {0x20, 0x01}, {0xff}}
			for _, k := range keys {
				require.NoError(t, db.Store(k, []byte{1}))
			}

			cur := types.Hash256{}
			var walked []types.Hash256
			for {
				next, ok, err := db.Successor(cur)
				require.NoError(t, err)
				if !ok {
					break
				}
				walked = append(walked, next)
				cur = next
			}
			assert.Equal(t, keys, walked)

			var last types.Hash256
			for i := range last {
				last[i] = 0xff
			}
			_, ok, err := db.Successor(last)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "default", config: *DefaultConfig()},
		{name: "no backend", config: Config{Compressor: "none"}, wantErr: true},
		{name: "unknown backend", config: Config{Backend: "rocksdb", Compressor: "none"}, wantErr: true},
		{name: "unknown compressor", config: Config{Backend: "memory", Compressor: "zstd"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClosedBackend(t *testing.T) {
	for _, name := range AvailableBackends() {
		t.Run(name, func(t *testing.T) {
			b, err := CreateBackend(name, DefaultConfig())
			require.NoError(t, err)
			require.NoError(t, b.Open())
			require.NoError(t, b.Close())

			_, err = b.Get(types.Hash256{1})
			assert.ErrorIs(t, err, ErrBackendClosed)
			assert.ErrorIs(t, b.Put(types.Hash256{1}, nil), ErrBackendClosed)
		})
	}
}

func TestStoreErrorMessage(t *testing.T) {
	err := newError("get", "memory", types.Hash256{}, ErrDataCorrupt)
	assert.Equal(t, "nodestore get error on backend memory: data corruption detected", err.Error())
	assert.ErrorIs(t, err, ErrDataCorrupt)
}
