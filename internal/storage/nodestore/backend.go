package nodestore

import (
	"fmt"
	"sort"
	"sync"
)

// BackendFactory is a function that creates a new backend instance.
type BackendFactory func(config *Config) (Backend, error)

var (
	backendMu        sync.RWMutex
	backendFactories = make(map[string]BackendFactory)
)

// RegisterBackend registers a backend factory with the given name.
func RegisterBackend(name string, factory BackendFactory) {
	backendMu.Lock()
	defer backendMu.Unlock()
	backendFactories[name] = factory
}

// CreateBackend creates a new backend instance for the given name and configuration.
func CreateBackend(name string, config *Config) (Backend, error) {
	backendMu.RLock()
	factory, ok := backendFactories[name]
	backendMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown backend: %s", name)
	}

	return factory(config)
}

// AvailableBackends returns the sorted names of the registered backends.
func AvailableBackends() []string {
	backendMu.RLock()
	defer backendMu.RUnlock()

	names := make([]string, 0, len(backendFactories))
	for name := range backendFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsBackendAvailable checks if a backend with the given name is available.
func IsBackendAvailable(name string) bool {
	backendMu.RLock()
	_, ok := backendFactories[name]
	backendMu.RUnlock()
	return ok
}

func init() {
	RegisterBackend("memory", NewMemoryBackend)
	RegisterBackend("pebble", NewPebbleBackend)
	RegisterBackend("leveldb", NewLevelDBBackend)
}
