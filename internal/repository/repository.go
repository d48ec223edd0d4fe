package repository

import (
	"context" // Standard for request-scoped deadlines, cancellation signals, etc.
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Keys of the persisted state layout.
const (
	WorkoutsKey        = "workouts"         // JSON object: date-key -> []ExerciseInstance
	CustomExercisesKey = "custom_exercises" // JSON array of custom ExerciseDefinition
)

// KeyValueRepository is the local key-value storage the app persists to.
// Values are opaque JSON documents, every Save overwrites the whole value.
type KeyValueRepository interface {
	// Load returns the stored value or ErrNotFound when the key was never saved.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save replaces the value stored under key.
	Save(ctx context.Context, key string, value []byte) error
}
