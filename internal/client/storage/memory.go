package storage

import (
	"context"
	"maps"
	"sync"
)

// MemoryRepository keeps credentials in process memory only.
type MemoryRepository struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string][]byte)}
}

// Get returns a copy of the value under key, or nil when absent.
func (m *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryRepository) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryRepository) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.data)
	return nil
}

func (m *MemoryRepository) List(_ context.Context) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.data), nil
}

// Update runs fn against a scratch copy and swaps it in on success.
func (m *MemoryRepository) Update(ctx context.Context, fn func(ctx context.Context, r Repository) error) error {
	m.mu.Lock()
	scratch := &MemoryRepository{data: maps.Clone(m.data)}
	m.mu.Unlock()

	if err := fn(ctx, scratch); err != nil {
		return err
	}

	m.mu.Lock()
	m.data = scratch.data
	m.mu.Unlock()
	return nil
}
