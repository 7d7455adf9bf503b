package storage

import (
	"context"
	"strings"
	"sync"
)

// ensure memoryBackend implements Backend
var _ Backend = (*memoryBackend)(nil)

// memoryBackend is an in-process Backend used for tests and dry runs. It is
// safe for concurrent use.
type memoryBackend struct {
	mu   sync.Mutex
	sets map[string]map[string]struct{}
}

// NewMemory creates an in-memory Backend.
func NewMemory() Backend {
	return &memoryBackend{sets: make(map[string]map[string]struct{})}
}

func (m *memoryBackend) Add(ctx context.Context, collection, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[collection]
	if !ok {
		set = make(map[string]struct{})
		m.sets[collection] = set
	}
	if _, exists := set[member]; exists {
		return false, nil
	}
	set[member] = struct{}{}
	return true, nil
}

func (m *memoryBackend) Remove(ctx context.Context, collection, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[collection]
	if !ok {
		return false, nil
	}
	if _, exists := set[member]; !exists {
		return false, nil
	}
	delete(set, member)
	if len(set) == 0 {
		delete(m.sets, collection)
	}
	return true, nil
}

func (m *memoryBackend) Count(ctx context.Context, collection string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.sets[collection])), nil
}

func (m *memoryBackend) Members(ctx context.Context, collection string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set := m.sets[collection]
	members := make([]string, 0, len(set))
	for member := range set {
		members = append(members, member)
	}
	return members, nil
}

func (m *memoryBackend) Drop(ctx context.Context, collection string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sets[collection]; !ok {
		return false, nil
	}
	delete(m.sets, collection)
	return true, nil
}

func (m *memoryBackend) Collections(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for key := range m.sets {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (m *memoryBackend) Ping(ctx context.Context) error { return nil }

func (m *memoryBackend) Close() error { return nil }
