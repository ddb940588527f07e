// Package storage talks to the object store that hosts product images.
package storage

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig holds the connection details of the image bucket.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioImageStore removes product image assets from a MinIO or S3 bucket.
type MinioImageStore struct {
	client *minio.Client
	bucket string
	logger hclog.Logger
}

// NewMinioImageStore connects to the configured endpoint.
func NewMinioImageStore(cfg MinioConfig, logger hclog.Logger) (*MinioImageStore, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	logger.Info("connected to image store", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)
	return &MinioImageStore{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// DeleteImage removes the object stored under externalID. Removing a missing
// object is not an error.
func (s *MinioImageStore) DeleteImage(ctx context.Context, externalID string) error {
	if externalID == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, externalID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove image %s from bucket %s: %w", externalID, s.bucket, err)
	}
	s.logger.Debug("removed image", "external_id", externalID)
	return nil
}
