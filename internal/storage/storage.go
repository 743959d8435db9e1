// Package storage talks to the object store that holds uploaded media
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotConfigured is returned when the object store has no usable credentials
var ErrNotConfigured = errors.New("object store is not configured")

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Key string
	// VersionID identifies the stored revision (B2 file id / GCS generation), empty if unknown
	VersionID string
	Size      int64
}

// ObjectStore is the object store port used by the upload pipeline
type ObjectStore interface {
	// Upload stores size bytes from body under key
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*ObjectInfo, error)

	// Delete removes the object revision identified by key and versionID.
	// An empty versionID removes the current revision.
	Delete(ctx context.Context, key, versionID string) error

	// SignedURL returns a download URL for key that stays valid for ttl
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
