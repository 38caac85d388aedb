package storage

import (
	"context"
	"slices"
	"sort"
	"sync"

	"svw.info/cardle/internal/ports"
)

// Memory is a process-local BlobStore, used by tests and --storage memory.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemory() *Memory { return &Memory{blobs: map[string][]byte{}} }

var _ ports.BlobStore = (*Memory)(nil)

func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return slices.Clone(b), nil
}

func (m *Memory) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = slices.Clone(data)
	return nil
}

func (m *Memory) Keys(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.blobs))
	for k := range m.blobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}
