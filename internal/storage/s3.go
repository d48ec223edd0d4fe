package storage

import (
	"alcyxob/bodyapp/internal/config"
	"alcyxob/bodyapp/internal/repository"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	log "github.com/sirupsen/logrus"
)

const jsonContentType = "application/json"

// s3Storage implements ObjectStorage using an S3-compatible backend.
// Each key is stored as one JSON object named <prefix><key>.json.
type s3Storage struct {
	client        *s3.Client        // Regular client for Get/Put
	presignClient *s3.PresignClient // Special client for generating presigned URLs
	bucketName    string
	prefix        string
}

// NewS3Storage creates a new S3 storage service instance.
func NewS3Storage(ctx context.Context, cfg config.S3Config) (ObjectStorage, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("s3 bucket name is required")
	}

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		log.Errorf("failed to load AWS SDK config for S3: %v", err)
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		// Custom endpoint for S3-compatible services (MinIO, DigitalOcean Spaces)
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true // required by most S3-compatible services
	})

	log.Infof("S3 storage initialized for endpoint: %s, bucket: %s", cfg.Endpoint, cfg.BucketName)

	return &s3Storage{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    cfg.BucketName,
		prefix:        cfg.Prefix,
	}, nil
}

func (s *s3Storage) objectKey(key string) string {
	return objectKey(s.prefix, key)
}

func objectKey(prefix, key string) string {
	return fmt.Sprintf("%s%s.json", prefix, key)
}

// Load downloads the object for key.
func (s *s3Storage) Load(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrNotFound
		}
		log.Errorf("failed to get object '%s' from bucket '%s': %v", s.objectKey(key), s.bucketName, err)
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// Save uploads value as the object for key, replacing any previous version.
func (s *s3Storage) Save(ctx context.Context, key string, value []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(value),
		ContentType: aws.String(jsonContentType),
	})
	if err != nil {
		log.Errorf("failed to put object '%s' to bucket '%s': %v", s.objectKey(key), s.bucketName, err)
		return err
	}
	log.Debugf("saved object '%s' (%d bytes)", s.objectKey(key), len(value))
	return nil
}

// GeneratePresignedDownloadURL creates a temporary URL for downloading (GET).
func (s *s3Storage) GeneratePresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(key)),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		log.Errorf("failed to generate presigned GET URL for key '%s': %v", s.objectKey(key), err)
		return "", err
	}

	return req.URL, nil
}

// isNotFound reports whether err means the object does not exist.
// GetObject returns a typed NoSuchKey, some S3-compatible servers only send the code.
func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
