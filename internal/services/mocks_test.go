package services

import (
	"context"
	"io"
	"time"

	"github.com/rougebyt/b2-backend/internal/models"
	"github.com/rougebyt/b2-backend/internal/storage"
)

// mockObjectStore is a mock implementation of storage.ObjectStore
type mockObjectStore struct {
	uploadErr error
	deleteErr error
	signErr   error
	versionID string

	uploadedKey  string
	uploadedBody []byte
	contentType  string
	uploadCalls  int
	deleteCalls  int
	deletedKey   string
	deletedVer   string
	signedKey    string
	signedTTL    time.Duration
}

func (m *mockObjectStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*storage.ObjectInfo, error) {
	m.uploadCalls++
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	m.uploadedKey = key
	m.uploadedBody = data
	m.contentType = contentType
	return &storage.ObjectInfo{Key: key, VersionID: m.versionID, Size: int64(len(data))}, nil
}

func (m *mockObjectStore) Delete(ctx context.Context, key, versionID string) error {
	m.deleteCalls++
	m.deletedKey = key
	m.deletedVer = versionID
	return m.deleteErr
}

func (m *mockObjectStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	m.signedKey = key
	m.signedTTL = ttl
	if m.signErr != nil {
		return "", m.signErr
	}
	return "https://signed.example/" + key + "?X-Amz-Expires=3600", nil
}

// mockContentRepository is a mock implementation of ContentRepository
type mockContentRepository struct {
	upsertErr    error
	thumbnailErr error

	upserted       []*models.Content
	thumbnailCalls int
	thumbnailKey   string
	thumbnailOf    string
}

func (m *mockContentRepository) UpsertContent(ctx context.Context, content *models.Content) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, content)
	return nil
}

func (m *mockContentRepository) UpdateCourseThumbnail(ctx context.Context, courseID, key string) error {
	m.thumbnailCalls++
	if m.thumbnailErr != nil {
		return m.thumbnailErr
	}
	m.thumbnailOf = courseID
	m.thumbnailKey = key
	return nil
}

// mockExtractor is a mock implementation of DurationExtractor that drains the payload
type mockExtractor struct {
	seconds int
	err     error
	calls   int
}

func (m *mockExtractor) Duration(ctx context.Context, payload io.Reader) (int, error) {
	m.calls++
	_, _ = io.Copy(io.Discard, payload)
	if m.err != nil {
		return 0, m.err
	}
	return m.seconds, nil
}

// mockCourseRepository is a mock implementation of CourseRepository
type mockCourseRepository struct {
	courses      []models.Course
	course       *models.Course
	err          error
	recalcErr    error
	recalcErrs   map[string]error
	recalcCalled bool
	recalculated []string
	ids          []string
	idsErr       error
}

func (m *mockCourseRepository) ListIDs(ctx context.Context) ([]string, error) {
	return m.ids, m.idsErr
}

func (m *mockCourseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.courses, nil
}

func (m *mockCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.course, nil
}

func (m *mockCourseRepository) RecalculateDurations(ctx context.Context, id string) error {
	m.recalcCalled = true
	if err, ok := m.recalcErrs[id]; ok {
		return err
	}
	if m.recalcErr == nil {
		m.recalculated = append(m.recalculated, id)
	}
	return m.recalcErr
}
