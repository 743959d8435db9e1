package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rougebyt/b2-backend/internal/models"
	"go.uber.org/zap"
)

// CourseService defines the interface for course reads and maintenance
type CourseService interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	RecalculateDurations(ctx context.Context, id string) (*models.Course, error)
}

// CourseHandler handles course read requests
type CourseHandler struct {
	BaseHandler
	courseService CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		courseService: courseService,
	}
}

// RegisterRoutes registers public course routes
func (h *CourseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/courses", h.ListCourses)
	r.Get("/course/{id}", h.GetCourse)
}

// RegisterAdminRoutes registers maintenance routes. The router must apply the API key guard.
func (h *CourseHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/admin/course/{id}/recalculate-duration", h.RecalculateDurations)
}

// ListCourses handles GET /courses
// @Summary List courses
// @Description Return every course with its sections and contents
// @Tags courses
// @Produce json
// @Success 200 {array} models.Course
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /courses [get]
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseService.ListCourses(r.Context())
	if err != nil {
		h.Logger.Error("failed to list courses", zap.Error(err))
		h.RespondServiceError(w, err, "failed to list courses")
		return
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// GetCourse handles GET /course/{id}
// @Summary Get a course
// @Description Return one course with its sections and contents
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} models.ErrorResponse "Course not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /course/{id} [get]
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	course, err := h.courseService.GetCourse(r.Context(), id)
	if err != nil {
		h.Logger.Info("failed to get course", zap.Error(err), zap.String("course_id", id))
		h.RespondServiceError(w, err, "failed to get course")
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// RecalculateDurations handles POST /admin/course/{id}/recalculate-duration
// @Summary Recalculate course durations
// @Description Rebuild section and course duration totals from the stored video durations
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Success 200 {object} models.Course
// @Failure 401 {object} models.ErrorResponse "Invalid API key"
// @Failure 404 {object} models.ErrorResponse "Course not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /admin/course/{id}/recalculate-duration [post]
func (h *CourseHandler) RecalculateDurations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	course, err := h.courseService.RecalculateDurations(r.Context(), id)
	if err != nil {
		h.Logger.Error("failed to recalculate durations", zap.Error(err), zap.String("course_id", id))
		h.RespondServiceError(w, err, "failed to recalculate durations")
		return
	}

	h.Logger.Info("recalculated course durations",
		zap.String("course_id", id),
		zap.String("total_duration", course.TotalDuration),
	)
	h.RespondJSON(w, http.StatusOK, course)
}
