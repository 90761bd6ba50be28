package storage

import (
	"context"
	"errors"
	"fmt"

	gcs "cloud.google.com/go/storage"

	"imageatelier/internal/domain"
)

// GCSStore writes artifacts to a Google Cloud Storage bucket and returns
// public object URLs. The bucket is expected to allow public reads.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

// NewGCSStore wires a GCS-backed blob store. Credentials are resolved from
// the environment by the SDK.
func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: create gcs client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

// Store uploads the bytes under a fresh key and returns the public URL.
func (s *GCSStore) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	key := NewObjectKey(contentType)
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("%w: gcs write: %v", domain.ErrStorageUnavailable, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: gcs close: %v", domain.ErrStorageUnavailable, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key), nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

var _ BlobStore = (*GCSStore)(nil)
