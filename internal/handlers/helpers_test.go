package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rougebyt/b2-backend/internal/auth"
	"github.com/rougebyt/b2-backend/internal/models"
	"github.com/rougebyt/b2-backend/internal/repositories"
	"github.com/rougebyt/b2-backend/internal/services"
	"github.com/rougebyt/b2-backend/internal/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testToken = "token-user-1"

// tokenVerifier accepts testToken as user-1
type tokenVerifier struct{}

func (tokenVerifier) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	if token != testToken {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Identity{UID: "user-1"}, nil
}

// memoryStore is an in-memory object store
type memoryStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	deletes   []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (s *memoryStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*storage.ObjectInfo, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return &storage.ObjectInfo{Key: key, VersionID: "v-" + key, Size: int64(len(data))}, nil
}

func (s *memoryStore) Delete(ctx context.Context, key, versionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deletes = append(s.deletes, key)
	return nil
}

func (s *memoryStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://files.example/%s?ttl=%d", key, int(ttl.Seconds())), nil
}

// memoryRepository keeps course trees in memory
type memoryRepository struct {
	mu         sync.Mutex
	thumbnails map[string]string
	contents   map[string]map[string]map[string]models.Content
	failWrites bool
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		thumbnails: make(map[string]string),
		contents:   make(map[string]map[string]map[string]models.Content),
	}
}

func (r *memoryRepository) ensureCourse(id string) {
	if _, ok := r.contents[id]; !ok {
		r.contents[id] = make(map[string]map[string]models.Content)
	}
}

func (r *memoryRepository) UpsertContent(ctx context.Context, content *models.Content) error {
	if r.failWrites {
		return errors.New("metadata store unavailable")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureCourse(content.CourseID)
	if _, ok := r.contents[content.CourseID][content.SectionID]; !ok {
		r.contents[content.CourseID][content.SectionID] = make(map[string]models.Content)
	}
	r.contents[content.CourseID][content.SectionID][content.ID] = *content
	return nil
}

func (r *memoryRepository) UpdateCourseThumbnail(ctx context.Context, courseID, key string) error {
	if r.failWrites {
		return errors.New("metadata store unavailable")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureCourse(courseID)
	r.thumbnails[courseID] = key
	return nil
}

func (r *memoryRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	r.mu.Lock()
	ids := make([]string, 0, len(r.contents))
	for id := range r.contents {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	sort.Strings(ids)

	courses := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		course, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}
	return courses, nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sections, ok := r.contents[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}

	course := &models.Course{ID: id, Sections: []models.Section{}}
	if key, ok := r.thumbnails[id]; ok {
		course.ThumbnailKey = &key
	}

	sectionIDs := make([]string, 0, len(sections))
	for sectionID := range sections {
		sectionIDs = append(sectionIDs, sectionID)
	}
	sort.Strings(sectionIDs)

	for _, sectionID := range sectionIDs {
		section := models.Section{ID: sectionID, CourseID: id, Contents: []models.Content{}}
		for _, content := range sections[sectionID] {
			if content.Type == models.ContentTypeVideo && content.DurationSeconds != nil {
				section.TotalDurationSeconds += *content.DurationSeconds
			}
			section.Contents = append(section.Contents, content)
		}
		sort.Slice(section.Contents, func(i, j int) bool { return section.Contents[i].ID < section.Contents[j].ID })
		section.TotalDuration = models.FormatDuration(section.TotalDurationSeconds)
		course.TotalDurationSeconds += section.TotalDurationSeconds
		course.Sections = append(course.Sections, section)
	}
	course.TotalDuration = models.FormatDuration(course.TotalDurationSeconds)
	return course, nil
}

func (r *memoryRepository) ListIDs(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.contents))
	for id := range r.contents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *memoryRepository) RecalculateDurations(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contents[id]; !ok {
		return repositories.ErrNotFound
	}
	return nil
}

// fixedExtractor reports a constant duration, or an error when err is set
type fixedExtractor struct {
	seconds int
	err     error
}

func (e fixedExtractor) Duration(ctx context.Context, payload io.Reader) (int, error) {
	return e.seconds, e.err
}

// testServer wires the real services over in-memory collaborators
type testServer struct {
	router http.Handler
	store  *memoryStore
	repo   *memoryRepository
}

func newTestServer(t *testing.T, extractor services.DurationExtractor) *testServer {
	t.Helper()
	logger := zap.NewNop()
	store := newMemoryStore()
	repo := newMemoryRepository()

	uploadHandler := NewUploadHandler(services.NewUploadService(store, repo, extractor, logger), logger)
	fileURLHandler := NewFileURLHandler(services.NewFileURLService(store, services.DefaultURLTTL, logger), logger)
	courseHandler := NewCourseHandler(services.NewCourseService(repo), logger)

	r := chi.NewRouter()
	courseHandler.RegisterRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(tokenVerifier{}, logger))
		uploadHandler.RegisterRoutes(r)
		fileURLHandler.RegisterRoutes(r)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.APIKeyMiddleware("admin-key"))
		courseHandler.RegisterAdminRoutes(r)
	})

	return &testServer{router: r, store: store, repo: repo}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// newUploadRequest builds an authenticated multipart upload
func newUploadRequest(t *testing.T, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testToken)
	return req
}

func videoFields() map[string]string {
	return map[string]string{
		"type":      "video",
		"courseId":  "C",
		"sectionId": "S",
		"contentId": "X",
		"uploader":  "user-1",
		"name":      "Intro",
	}
}
