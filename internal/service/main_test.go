package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"alcyxob/bodyapp/internal/repository"
	"alcyxob/bodyapp/internal/repository/memory"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// rest timer countdowns must not outlive Dismiss/Close
	goleak.VerifyTestMain(m)
}

var errDiskFull = errors.New("disk full")

// flakyRepo wraps the memory repository and can be told to fail writes.
type flakyRepo struct {
	repository.KeyValueRepository

	mu        sync.Mutex
	failSaves bool
	saves     int
}

func newFlakyRepo() *flakyRepo {
	return &flakyRepo{KeyValueRepository: memory.NewMemoryKVRepository()}
}

func (r *flakyRepo) Save(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSaves {
		return errDiskFull
	}
	r.saves++
	return r.KeyValueRepository.Save(ctx, key, value)
}

func (r *flakyRepo) setFailSaves(fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failSaves = fail
}

func (r *flakyRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
