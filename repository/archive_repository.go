package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// S3API is the slice of the S3 client the archive store needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3ArchiveStore archives raw upload bytes to an S3-compatible bucket under
// {brand}/{dateKey}/{unix-millis}_{sanitized-filename}.
type S3ArchiveStore struct {
	client S3API
	bucket string
	logger *zap.Logger
	now    func() time.Time
}

// NewS3ArchiveStore creates a new S3ArchiveStore.
func NewS3ArchiveStore(client S3API, bucket string, logger *zap.Logger) *S3ArchiveStore {
	return &S3ArchiveStore{
		client: client,
		bucket: bucket,
		logger: logger,
		now:    time.Now,
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

func sanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// Store uploads the file, creating the bucket and retrying exactly once if
// the bucket does not exist yet. The key is computed once so the archive
// path is byte-identical across the retry.
func (s *S3ArchiveStore) Store(ctx context.Context, brand, dateKey, filename, contentType string, data []byte) (*ArchiveLocation, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("%s/%s/%d_%s", brand, dateKey, s.now().UnixMilli(), sanitizeFilename(filename))

	put := func() error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return err
	}

	err := put()
	if err == nil {
		return &ArchiveLocation{Bucket: s.bucket, Path: key}, nil
	}
	if !isMissingBucket(err) {
		return nil, fmt.Errorf("failed to archive uploaded file: %w", err)
	}

	s.logger.Warn("archive bucket missing, creating it",
		zap.String("bucket", s.bucket),
		zap.Error(err),
	)
	if err := s.createBucket(ctx); err != nil {
		return nil, err
	}
	if err := put(); err != nil {
		return nil, fmt.Errorf("failed to archive uploaded file after bucket creation: %w", err)
	}
	return &ArchiveLocation{Bucket: s.bucket, Path: key}, nil
}

// createBucket creates the archive bucket, tolerating concurrent creation.
func (s *S3ArchiveStore) createBucket(ctx context.Context) error {
	_, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil && !isBucketAlreadyExists(err) {
		return fmt.Errorf("failed to create archive bucket: %w", err)
	}
	return nil
}

func isMissingBucket(err error) bool {
	var noBucket *types.NoSuchBucket
	if errors.As(err, &noBucket) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket", "NotFound":
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bucket not found") || strings.Contains(msg, "does not exist")
}

func isBucketAlreadyExists(err error) bool {
	var owned *types.BucketAlreadyOwnedByYou
	var exists *types.BucketAlreadyExists
	if errors.As(err, &owned) || errors.As(err, &exists) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "already")
}
