package store

import (
	"context"
	"sync"

	"github.com/serroba/tinyurl/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Store.
type MemoryStore struct {
	mu       sync.RWMutex
	mappings map[shortener.Code]shortener.Mapping
}

// NewMemoryStore creates a new in-memory mapping store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mappings: make(map[shortener.Code]shortener.Mapping),
	}
}

func (m *MemoryStore) TryCreate(_ context.Context, mapping *shortener.Mapping) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.mappings[mapping.Code]; ok && !existing.Expired(mapping.CreatedAt) {
		return false, nil
	}

	m.mappings[mapping.Code] = *mapping

	return true, nil
}

func (m *MemoryStore) Get(_ context.Context, code shortener.Code) (*shortener.Mapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mapping, ok := m.mappings[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &mapping, nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

var _ shortener.Store = (*MemoryStore)(nil)
