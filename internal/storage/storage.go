package storage

import (
	"alcyxob/bodyapp/internal/repository"
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ObjectStorage is a key-value repository kept in an object store.
// Besides Load/Save it can hand out temporary download links, which the
// export endpoint uses to let a client fetch the raw workouts snapshot.
type ObjectStorage interface {
	repository.KeyValueRepository

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading the value stored under key directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error)
}
