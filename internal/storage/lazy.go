package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rougebyt/b2-backend/internal/config"
)

// InitFunc creates the underlying store session
type InitFunc func(ctx context.Context) (ObjectStore, error)

// LazyStore creates its session on first use and keeps it for the process lifetime.
// A failed initialization is retried by the next call.
type LazyStore struct {
	mu    sync.Mutex
	store ObjectStore
	init  InitFunc
}

// NewLazyStore wraps init in a guarded single initialization
func NewLazyStore(init InitFunc) *LazyStore {
	return &LazyStore{init: init}
}

// NewStore returns a lazily-initialized store for the configured provider
func NewStore(cfg config.StorageConfig) *LazyStore {
	return NewLazyStore(func(ctx context.Context) (ObjectStore, error) {
		switch cfg.Provider {
		case config.StorageProviderGCS:
			return NewGCSStore(ctx, cfg.GCS)
		default:
			return NewB2Store(ctx, cfg.B2)
		}
	})
}

func (l *LazyStore) get(ctx context.Context) (ObjectStore, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.store != nil {
		return l.store, nil
	}

	// The session outlives the request that happened to create it
	store, err := l.init(context.WithoutCancel(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object store: %w", err)
	}
	l.store = store
	return store, nil
}

// Upload implements ObjectStore
func (l *LazyStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*ObjectInfo, error) {
	store, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return store.Upload(ctx, key, body, size, contentType)
}

// Delete implements ObjectStore
func (l *LazyStore) Delete(ctx context.Context, key, versionID string) error {
	store, err := l.get(ctx)
	if err != nil {
		return err
	}
	return store.Delete(ctx, key, versionID)
}

// SignedURL implements ObjectStore
func (l *LazyStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	store, err := l.get(ctx)
	if err != nil {
		return "", err
	}
	return store.SignedURL(ctx, key, ttl)
}
