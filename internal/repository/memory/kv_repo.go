package memory

import (
	"alcyxob/bodyapp/internal/repository"
	"context"
	"sync"
)

// memoryKVRepository keeps values in process memory. Nothing survives a restart.
type memoryKVRepository struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryKVRepository creates an empty in-memory key-value repository.
func NewMemoryKVRepository() repository.KeyValueRepository {
	return &memoryKVRepository{values: make(map[string][]byte)}
}

func (r *memoryKVRepository) Load(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.values[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (r *memoryKVRepository) Save(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	r.values[key] = v
	return nil
}
