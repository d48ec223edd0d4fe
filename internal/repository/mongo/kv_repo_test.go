package mongo

import (
	"context"
	"testing"

	"alcyxob/bodyapp/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoKVRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("load existing key", func(mt *mtest.T) {
		repo := NewMongoKVRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bodyapp.kv", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: repository.WorkoutsKey},
			{Key: "value", Value: `{"2024-01-01":[]}`},
		}))

		got, err := repo.Load(context.Background(), repository.WorkoutsKey)
		require.NoError(t, err)
		assert.Equal(t, `{"2024-01-01":[]}`, string(got))
	})

	mt.Run("load missing key", func(mt *mtest.T) {
		repo := NewMongoKVRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bodyapp.kv", mtest.FirstBatch))

		_, err := repo.Load(context.Background(), repository.CustomExercisesKey)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	mt.Run("save upserts", func(mt *mtest.T) {
		repo := NewMongoKVRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := repo.Save(context.Background(), repository.WorkoutsKey, []byte(`{}`))
		require.NoError(t, err)
	})

	mt.Run("save write error", func(mt *mtest.T) {
		repo := NewMongoKVRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    121,
			Message: "document failed validation",
		}))

		err := repo.Save(context.Background(), repository.WorkoutsKey, []byte(`{}`))
		assert.Error(t, err)
	})
}
