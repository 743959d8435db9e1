package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rougebyt/b2-backend/internal/storage"
	"go.uber.org/zap"
)

// DefaultURLTTL is the validity of issued download URLs
const DefaultURLTTL = time.Hour

// FileURLService issues time-limited download URLs for stored objects
type FileURLService struct {
	store  storage.ObjectStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewFileURLService creates a new file URL service. A non-positive ttl means DefaultURLTTL.
func NewFileURLService(store storage.ObjectStore, ttl time.Duration, logger *zap.Logger) *FileURLService {
	if ttl <= 0 {
		ttl = DefaultURLTTL
	}
	return &FileURLService{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// IssueURL returns a signed GET URL for key, valid for the configured ttl
func (s *FileURLService) IssueURL(ctx context.Context, callerID, key string) (string, error) {
	if callerID == "" {
		return "", ErrUnauthenticated
	}
	if err := storage.ValidateKey(key); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	url, err := s.store.SignedURL(ctx, key, s.ttl)
	if err != nil {
		s.logger.Error("failed to sign download url",
			zap.String("key", key),
			zap.String("user_id", callerID),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return url, nil
}
