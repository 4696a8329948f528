package state

import (
	"sync"

	"github.com/AtenJin/substrate/common"
)

// InMemoryBackend is a map backed state database pinned to the start of the
// block being prepared. It serves tests and tooling; production backends
// implement the same reads over persistent storage.
type InMemoryBackend struct {
	mu      sync.RWMutex
	storage map[string][]byte
}

func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{storage: map[string][]byte{}}
}

// Set seeds a key with a value.
func (b *InMemoryBackend) Set(key, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.storage[string(key)] = common.Copy(value)
}

// Storage returns the value held for key, nil when absent.
func (b *InMemoryBackend) Storage(key []byte) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return common.Copy(b.storage[string(key)]), nil
}

// ExistsStorage reports whether the backend holds a value for key.
func (b *InMemoryBackend) ExistsStorage(key []byte) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.storage[string(key)]
	return ok, nil
}
