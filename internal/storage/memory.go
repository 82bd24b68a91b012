package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps entries in memory. Used in tests and as the degraded
// mode when the sqlite store cannot be opened.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string

	// FailWrites makes Set/Delete return an error, for exercising the
	// degrade-to-no-cache paths.
	FailWrites error
}

func NewMemory() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
