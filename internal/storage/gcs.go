package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/rougebyt/b2-backend/internal/config"
)

// gcsStore implements ObjectStore against Google Cloud Storage.
// Credentials come from Application Default Credentials.
type gcsStore struct {
	client *gcs.Client
	bucket string
}

// NewGCSStore creates a GCS client for the configured bucket
func NewGCSStore(ctx context.Context, cfg config.GCSConfig) (*gcsStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("gcs: %w", ErrNotConfigured)
	}

	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs: failed to create client: %w", err)
	}

	return &gcsStore{client: client, bucket: cfg.Bucket}, nil
}

// Upload streams the payload to key; the object generation is returned as VersionID.
// A failed copy cancels the writer instead of closing it, so no partial object is committed.
func (s *gcsStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*ObjectInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, body); err != nil {
		cancel()
		return nil, fmt.Errorf("gcs: failed to upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gcs: failed to finalize %s: %w", key, err)
	}

	info := &ObjectInfo{Key: key, Size: size}
	if attrs := w.Attrs(); attrs != nil {
		info.VersionID = strconv.FormatInt(attrs.Generation, 10)
		info.Size = attrs.Size
	}
	return info, nil
}

// Delete removes one generation of key, or the live one when versionID is empty
func (s *gcsStore) Delete(ctx context.Context, key, versionID string) error {
	obj := s.client.Bucket(s.bucket).Object(key)
	if versionID != "" {
		generation, err := strconv.ParseInt(versionID, 10, 64)
		if err != nil {
			return fmt.Errorf("gcs: invalid generation %q: %w", versionID, err)
		}
		obj = obj.Generation(generation)
	}

	if err := obj.Delete(ctx); err != nil {
		return fmt.Errorf("gcs: failed to delete %s: %w", key, err)
	}
	return nil
}

// SignedURL returns a V4 signed GET URL for key
func (s *gcsStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	url, err := s.client.Bucket(s.bucket).SignedURL(key, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("gcs: failed to sign %s: %w", key, err)
	}
	return url, nil
}
