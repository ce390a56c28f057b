package filestorage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dotoapp/doto-backend/internal/pkg/logger"
)

// S3Storage stores uploaded files in an S3 bucket. Objects are addressed by
// their public bucket URL.
type S3Storage struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Storage creates an S3-backed storage using the default AWS credential
// chain for the given region.
func NewS3Storage(ctx context.Context, bucket, region string) (*S3Storage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 storage requires a bucket name")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info().Str("bucket", bucket).Str("region", region).Msg("S3 storage initialized")
	return &S3Storage{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// SaveFileWithPath uploads a file under a key prefix and returns its public URL.
func (s *S3Storage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil // No file uploaded
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	ext := filepath.Ext(fileHeader.Filename)
	key := uuid.New().String() + ext
	if subPath != "" {
		key = strings.Trim(subPath, "/") + "/" + key
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        file,
	})
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to upload object to S3")
		return "", fmt.Errorf("failed to upload to s3: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	logger.Info().Str("filename", fileHeader.Filename).Str("key", key).Msg("File uploaded to S3")
	return url, nil
}

// SaveFile uploads a file at the root of the bucket.
func (s *S3Storage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return s.SaveFileWithPath(fileHeader, "")
}

// DeleteFile removes an object by its stored URL or key.
func (s *S3Storage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil // Nothing to delete
	}

	key := filePath
	// Stored values may be full public URLs, strip down to the object key
	marker := ".amazonaws.com/"
	if idx := strings.Index(filePath, marker); idx >= 0 {
		key = filePath[idx+len(marker):]
	}

	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Failed to delete object from S3")
		return fmt.Errorf("failed to delete from s3: %w", err)
	}

	logger.Info().Str("key", key).Msg("Object deleted from S3")
	return nil
}
