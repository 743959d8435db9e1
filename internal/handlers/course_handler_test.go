package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rougebyt/b2-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCourse(t *testing.T, srv *testServer, courseID string) {
	t.Helper()
	seconds := 30
	require.NoError(t, srv.repo.UpsertContent(context.Background(), &models.Content{
		ID:              "x1",
		CourseID:        courseID,
		SectionID:       "s1",
		Title:           "Intro",
		Type:            models.ContentTypeVideo,
		StorageKey:      "videos/vid_1.mp4",
		UploadedBy:      "user-1",
		DurationSeconds: &seconds,
		Duration:        "00:30",
	}))
}

func TestCourseHandler_ListCourses(t *testing.T) {
	srv := newTestServer(t, fixedExtractor{})
	seedCourse(t, srv, "b")
	seedCourse(t, srv, "a")

	w := srv.do(httptest.NewRequest(http.MethodGet, "/courses", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var courses []models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &courses))
	require.Len(t, courses, 2)
	assert.Equal(t, "a", courses[0].ID)
	assert.Equal(t, "b", courses[1].ID)
}

func TestCourseHandler_GetCourse(t *testing.T) {
	srv := newTestServer(t, fixedExtractor{})
	seedCourse(t, srv, "c1")

	w := srv.do(httptest.NewRequest(http.MethodGet, "/course/c1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var course models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &course))
	assert.Equal(t, "00:30", course.TotalDuration)

	w = srv.do(httptest.NewRequest(http.MethodGet, "/course/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not found", resp.Error)
}

func TestCourseHandler_RecalculateDurations(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		apiKey         string
		expectedStatus int
	}{
		{name: "success", path: "/admin/course/c1/recalculate-duration", apiKey: "admin-key", expectedStatus: http.StatusOK},
		{name: "unknown course", path: "/admin/course/nope/recalculate-duration", apiKey: "admin-key", expectedStatus: http.StatusNotFound},
		{name: "wrong key", path: "/admin/course/c1/recalculate-duration", apiKey: "guess", expectedStatus: http.StatusUnauthorized},
		{name: "missing key", path: "/admin/course/c1/recalculate-duration", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, fixedExtractor{})
			seedCourse(t, srv, "c1")
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}

			w := srv.do(req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
