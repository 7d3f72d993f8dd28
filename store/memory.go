package store

import (
	"context"
	"sync"

	"github.com/oriole-systems/causallog/causalerr"
)

// Memory is a map-backed BlockStore with no eviction. Safe for concurrent
// use.
type Memory struct {
	mu     sync.RWMutex
	blocks map[Hash][]byte
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{blocks: make(map[Hash][]byte)}
}

// Put implements BlockStore.
func (m *Memory) Put(ctx context.Context, data []byte) (Hash, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	h := hashBlock(data)

	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	m.blocks[h] = cp

	return h, nil
}

// Get implements BlockStore.
func (m *Memory) Get(ctx context.Context, hash Hash) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blocks[hash]
	if !ok {
		return nil, causalerr.New(causalerr.NotFound, "no block with hash %s", hash)
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// Len returns the number of blocks currently stored. Supplemental
// introspection helper used by tests.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blocks)
}
