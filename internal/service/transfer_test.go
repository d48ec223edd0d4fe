package service_test

import (
	"context"
	"testing"

	"alcyxob/bodyapp/internal/domain"
	"alcyxob/bodyapp/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDay adds one squat with two completed sets on dateKey.
func seedDay(t *testing.T, store service.DayStore, dateKey string) domain.ExerciseInstance {
	t.Helper()
	ctx := context.Background()
	inst, err := store.AddExercise(ctx, dateKey, squat)
	require.NoError(t, err)
	require.NoError(t, store.AddSet(ctx, dateKey, 0, domain.SetEntry{Weight: 100, Reps: 5, RestTime: 90, IsCompleted: true}))
	require.NoError(t, store.AddSet(ctx, dateKey, 0, domain.SetEntry{Weight: 110, Reps: 3, RestTime: 120, IsCompleted: true}))
	return inst
}

func TestTransfer_Copy(t *testing.T) {
	ctx := context.Background()
	store := newLoadedStore(t, newFlakyRepo())
	orig := seedDay(t, store, "2024-01-01")

	n, err := store.Transfer(ctx, "2024-01-01", "2024-01-02", domain.TransferCopy)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	target := store.Get("2024-01-02")
	require.Len(t, target, 1)
	require.Len(t, target[0].Sets, 2)
	assert.NotEqual(t, orig.InstanceID, target[0].InstanceID)
	assert.Equal(t, "squat", target[0].ID)
	for _, set := range target[0].Sets {
		assert.False(t, set.IsCompleted)
	}
	assert.Equal(t, domain.SetEntry{Weight: 100, Reps: 5, RestTime: 90}, target[0].Sets[0])
	assert.Equal(t, domain.SetEntry{Weight: 110, Reps: 3, RestTime: 120}, target[0].Sets[1])

	source := store.Get("2024-01-01")
	require.Len(t, source, 1)
	assert.Equal(t, orig.InstanceID, source[0].InstanceID)
	assert.True(t, source[0].Sets[0].IsCompleted, "source sets keep their completion")
}

func TestTransfer_Move(t *testing.T) {
	ctx := context.Background()
	repo := newFlakyRepo()
	store := newLoadedStore(t, repo)
	seedDay(t, store, "2024-01-01")
	saves := repo.saveCount()

	n, err := store.Transfer(ctx, "2024-01-01", "2024-01-02", domain.TransferMove)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, saves+1, repo.saveCount(), "move is persisted in one write")

	assert.Empty(t, store.Get("2024-01-01"))
	assert.False(t, store.HasWorkout("2024-01-01"))
	target := store.Get("2024-01-02")
	require.Len(t, target, 1)
	assert.Len(t, target[0].Sets, 2)
	assert.Equal(t, []string{"2024-01-02"}, store.WorkoutDates())

	// the cleared day survives a reload as empty
	reloaded := newLoadedStore(t, repo)
	assert.Empty(t, reloaded.Get("2024-01-01"))
	assert.Len(t, reloaded.Get("2024-01-02"), 1)
}

func TestTransfer_AppendsToTarget(t *testing.T) {
	ctx := context.Background()
	store := newLoadedStore(t, newFlakyRepo())
	seedDay(t, store, "2024-01-01")
	existing, err := store.AddExercise(ctx, "2024-01-02", bench)
	require.NoError(t, err)

	_, err = store.Transfer(ctx, "2024-01-01", "2024-01-02", domain.TransferCopy)
	require.NoError(t, err)

	target := store.Get("2024-01-02")
	require.Len(t, target, 2)
	assert.Equal(t, existing.InstanceID, target[0].InstanceID)
	assert.Equal(t, "squat", target[1].ID)
}

func TestTransfer_EmptySourceIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := newFlakyRepo()
	store := newLoadedStore(t, repo)
	seedDay(t, store, "2024-01-02")
	before := store.Get("2024-01-02")
	saves := repo.saveCount()

	for _, mode := range []domain.TransferMode{domain.TransferCopy, domain.TransferMove} {
		n, err := store.Transfer(ctx, "2024-01-01", "2024-01-02", mode)
		require.NoError(t, err)
		assert.Zero(t, n)
	}

	assert.Equal(t, before, store.Get("2024-01-02"))
	assert.Empty(t, store.Get("2024-01-01"))
	assert.Equal(t, saves, repo.saveCount())
}

func TestTransfer_InvalidMode(t *testing.T) {
	store := newLoadedStore(t, newFlakyRepo())
	seedDay(t, store, "2024-01-01")

	_, err := store.Transfer(context.Background(), "2024-01-01", "2024-01-02", "swap")
	assert.ErrorIs(t, err, service.ErrInvalidTransferMode)
	assert.Empty(t, store.Get("2024-01-02"))
}

func TestTransfer_FailedWriteKeepsSource(t *testing.T) {
	ctx := context.Background()
	repo := newFlakyRepo()
	store := newLoadedStore(t, repo)
	seedDay(t, store, "2024-01-01")

	repo.setFailSaves(true)
	_, err := store.Transfer(ctx, "2024-01-01", "2024-01-02", domain.TransferMove)
	assert.ErrorIs(t, err, errDiskFull)

	assert.Len(t, store.Get("2024-01-01"), 1)
	assert.Empty(t, store.Get("2024-01-02"))
}

func TestTransfer_InstanceIDsStayUnique(t *testing.T) {
	ctx := context.Background()
	store := newLoadedStore(t, newFlakyRepo())
	seedDay(t, store, "2024-01-01")
	_, err := store.AddExercise(ctx, "2024-01-01", bench)
	require.NoError(t, err)

	// rapid repeated copies into the same and different days
	for i := 0; i < 5; i++ {
		_, err := store.Transfer(ctx, "2024-01-01", "2024-01-02", domain.TransferCopy)
		require.NoError(t, err)
	}
	_, err = store.Transfer(ctx, "2024-01-02", "2024-01-03", domain.TransferMove)
	require.NoError(t, err)
	_, err = store.Transfer(ctx, "2024-01-03", "2024-01-01", domain.TransferCopy)
	require.NoError(t, err)

	assert.Len(t, store.Get("2024-01-01"), 12)
	assert.Len(t, store.Get("2024-01-03"), 10)
	assertUniqueInstanceIDs(t, store)
}

func TestCopyFrom(t *testing.T) {
	ctx := context.Background()
	store := newLoadedStore(t, newFlakyRepo())
	seedDay(t, store, "2024-01-01")

	n, err := store.CopyFrom(ctx, "2024-01-01", "2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, store.Get("2024-01-01"), 1)
	assert.Len(t, store.Get("2024-01-08"), 1)
	assertUniqueInstanceIDs(t, store)
}
