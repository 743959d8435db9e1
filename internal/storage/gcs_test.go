package storage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rougebyt/b2-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errClientGone = errors.New("client disconnected")

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errClientGone
}

// newFakeGCS starts an endpoint the GCS client reaches through STORAGE_EMULATOR_HOST
func newFakeGCS(t *testing.T) *atomic.Int32 {
	t.Helper()
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("STORAGE_EMULATOR_HOST", srv.URL)
	return &requests
}

func TestNewGCSStore_NotConfigured(t *testing.T) {
	_, err := NewGCSStore(context.Background(), config.GCSConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGCSStore_UploadReadFailureCommitsNothing(t *testing.T) {
	requests := newFakeGCS(t)

	store, err := NewGCSStore(context.Background(), config.GCSConfig{Bucket: "course-media"})
	require.NoError(t, err)

	info, err := store.Upload(context.Background(), "videos/vid_1.mp4", failingReader{}, 1024, "video/mp4")
	require.Error(t, err)
	assert.ErrorIs(t, err, errClientGone)
	assert.Nil(t, info)
	assert.Zero(t, requests.Load(), "no object write may reach the bucket")
}
