package memory_test

import (
	"context"
	"testing"

	"alcyxob/bodyapp/internal/repository"
	"alcyxob/bodyapp/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKVRepository_LoadMissing(t *testing.T) {
	repo := memory.NewMemoryKVRepository()
	_, err := repo.Load(context.Background(), repository.WorkoutsKey)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemoryKVRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMemoryKVRepository()

	value := []byte(`{"2024-01-01":[]}`)
	require.NoError(t, repo.Save(ctx, repository.WorkoutsKey, value))

	// mutating the caller's buffer must not leak into the store
	value[0] = 'x'

	got, err := repo.Load(ctx, repository.WorkoutsKey)
	require.NoError(t, err)
	assert.Equal(t, `{"2024-01-01":[]}`, string(got))

	require.NoError(t, repo.Save(ctx, repository.WorkoutsKey, []byte(`{}`)))
	got, err = repo.Load(ctx, repository.WorkoutsKey)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))
}
