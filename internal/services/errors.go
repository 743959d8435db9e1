package services

import "errors"

// Sentinel errors returned by services. Handlers map them to HTTP status codes.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUploaderMismatch = errors.New("uploader does not match authenticated user")
	ErrNotFound         = errors.New("not found")
	ErrStorage          = errors.New("object store failure")
	ErrMetadata         = errors.New("metadata store failure")
)
