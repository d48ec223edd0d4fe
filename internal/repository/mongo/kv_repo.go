// internal/repository/mongo/kv_repo.go
package mongo

import (
	"alcyxob/bodyapp/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const kvCollectionName = "kv"

// kvDocument is one stored key. The key doubles as the document _id.
type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// mongoKVRepository implements repository.KeyValueRepository
type mongoKVRepository struct {
	collection *mongo.Collection
}

// NewMongoKVRepository creates a key-value repository backed by a MongoDB collection.
func NewMongoKVRepository(db *mongo.Database) repository.KeyValueRepository {
	return &mongoKVRepository{
		collection: db.Collection(kvCollectionName),
	}
}

// Load retrieves the value stored under key.
func (r *mongoKVRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var doc kvDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return []byte(doc.Value), nil
}

// Save replaces (or inserts) the document for key.
func (r *mongoKVRepository) Save(ctx context.Context, key string, value []byte) error {
	doc := kvDocument{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	}
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		return repository.ErrUpdateFailed
	}
	return nil
}

// EnsureKVIndexes creates necessary indexes for the kv collection. Call during startup.
func EnsureKVIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Lets an operator find recently written keys
			Keys:    bson.D{{Key: "updatedAt", Value: -1}},
			Options: options.Index().SetName("kv_updated_at"),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// KVCollection returns the collection used by NewMongoKVRepository.
func KVCollection(db *mongo.Database) *mongo.Collection {
	return db.Collection(kvCollectionName)
}
