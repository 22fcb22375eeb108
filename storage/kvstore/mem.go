package kvstore

import (
	"sync"

	"github.com/pkg/errors"
)

var errBackendUnavailable = errors.New("backend unavailable")

// MemBackend is an in-memory Backend for tests.
type MemBackend struct {
	mu      sync.RWMutex
	entries map[string][]byte

	// Unavailable simulates a missing durable backend: all reads miss and
	// all writes fail.
	Unavailable bool
}

var _ Backend = (*MemBackend)(nil)

func NewMemBackend() *MemBackend {
	return &MemBackend{entries: make(map[string][]byte)}
}

func (b *MemBackend) Get(name string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.Unavailable {
		return nil, false, nil
	}
	data, ok := b.entries[name]
	return data, ok, nil
}

func (b *MemBackend) Set(name string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Unavailable {
		return errBackendUnavailable
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	b.entries[name] = cp
	return nil
}
