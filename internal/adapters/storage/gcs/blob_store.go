// Package gcs implements the BlobStore port on Google Cloud Storage.
package gcs

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/tithr-app/tithr_backend/internal/core/ports"
)

// BlobStore stores deposit slip objects in a single GCS bucket.
type BlobStore struct {
	client *storage.Client
	bucket string
}

// NewBlobStore creates a blob store for the given bucket. It assumes
// Application Default Credentials are configured.
func NewBlobStore(ctx context.Context, bucket string) (*BlobStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket name cannot be empty")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &BlobStore{client: client, bucket: bucket}, nil
}

var _ ports.BlobStore = (*BlobStore)(nil)

// Put stores data under path and returns the stored path. The writer is
// closed before returning so a failed finalize surfaces as an error rather
// than a phantom object.
func (s *BlobStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload of %s: %w", path, err)
	}
	return path, nil
}

// Fetch reads the object bytes back.
func (s *BlobStore) Fetch(ctx context.Context, path string) ([]byte, error) {
	rc, err := s.client.Bucket(s.bucket).Object(path).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", path, err)
	}
	return data, nil
}

// Close releases the underlying storage client.
func (s *BlobStore) Close() error {
	return s.client.Close()
}
