// Package blob stores attachment bytes in Google Cloud Storage.
package blob

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
)

// GCSStore keeps objects in one bucket. Objects are publicly addressable
// through the standard storage endpoint; access control is managed on the
// bucket, not per object.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore creates a store over the given bucket.
func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket name is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	return &GCSStore{client: client, bucket: bucket}, nil
}

// Upload writes the object and returns its public URL.
func (s *GCSStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close object %s: %w", path, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, path), nil
}

// Delete removes the object. Deleting a missing object is a no-op.
func (s *GCSStore) Delete(ctx context.Context, path string) error {
	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete object %s: %w", path, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
