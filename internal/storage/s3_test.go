package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"alcyxob/bodyapp/internal/config"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "workouts.json", objectKey("", "workouts"))
	assert.Equal(t, "bodyapp/custom_exercises.json", objectKey("bodyapp/", "custom_exercises"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&types.NoSuchKey{}))
	assert.True(t, isNotFound(fmt.Errorf("get: %w", &smithy.GenericAPIError{Code: "NotFound"})))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("connection reset")))
}

func TestNewS3Storage_RequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestS3Storage_PresignDownload(t *testing.T) {
	st, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test-secret",
		BucketName:      "bodyapp",
		Prefix:          "backup/",
	})
	require.NoError(t, err)

	// presigning is local, no request reaches the endpoint
	url, err := st.GeneratePresignedDownloadURL(context.Background(), "workouts", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/bodyapp/backup/workouts.json")
	assert.Contains(t, url, "X-Amz-Expires=900")
}
