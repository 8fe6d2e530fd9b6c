package websession

import (
	"fmt"
	"sort"
	"sync"
)

// StoreFactory builds a store from backend-specific arguments. Factories are
// registered under a backend name and resolved once at startup; see
// RegisterStore and OpenStore.
type StoreFactory func(args map[string]string) (Store, error)

// Common argument keys understood by the bundled backends.
const (
	// ArgPath is the data directory (file backend).
	ArgPath = "path"
	// ArgLockPath is the lock-file directory (file backend).
	ArgLockPath = "lock_path"
	// ArgDSN is the connection string (redis, postgres, mongo backends).
	ArgDSN = "dsn"
	// ArgCleanupInterval enables periodic expiry pruning where the backend
	// supports it, as a time.Duration string.
	ArgCleanupInterval = "cleanup_interval"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]StoreFactory)
)

// RegisterStore makes a store factory available under the given backend
// name. It is intended to be called from the init function of backend
// packages, so importing a backend is all it takes to enable it. Registering
// a duplicate name or a nil factory panics, mirroring database/sql.
func RegisterStore(name string, factory StoreFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("websession: RegisterStore factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic("websession: RegisterStore called twice for backend " + name)
	}
	registry[name] = factory
}

// OpenStore resolves a backend by name and builds a store from the given
// arguments. An unregistered name yields ErrUnknownStoreBackend.
func OpenStore(name string, args map[string]string) (Store, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (forgotten import?)", ErrUnknownStoreBackend, name)
	}
	return factory(args)
}

// StoreBackends returns the sorted names of all registered backends.
func StoreBackends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
