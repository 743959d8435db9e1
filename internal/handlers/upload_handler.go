package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rougebyt/b2-backend/internal/auth"
	"github.com/rougebyt/b2-backend/internal/models"
	"go.uber.org/zap"
)

// multipartMemory is the part of a multipart body kept in memory, the rest spills to disk
const multipartMemory = 32 << 20

// UploadService defines the interface for the upload pipeline
type UploadService interface {
	// Upload validates and stores a file, then records its metadata.
	//
	// Returns the stored key and, for videos, the duration.
	Upload(ctx context.Context, req *models.UploadRequest) (*models.UploadResult, error)
}

// UploadHandler handles media upload requests
type UploadHandler struct {
	BaseHandler
	uploadService UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService UploadService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		uploadService: uploadService,
	}
}

// RegisterRoutes registers the upload route. The router must apply authentication.
func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.Post("/upload", h.Upload)
}

// Upload handles POST /upload
// @Summary Upload a media file
// @Description Store a video, PDF or course thumbnail and record its metadata. Videos are probed for their duration.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Param type formData string true "Content type" Enums(video, pdf, thumbnail)
// @Param courseId formData string true "Course ID"
// @Param sectionId formData string false "Section ID (required unless thumbnail)"
// @Param contentId formData string false "Content ID (required unless thumbnail)"
// @Param uploader formData string true "Uploader uid, must match the token"
// @Param name formData string true "Content title"
// @Param order formData integer false "Position inside the section"
// @Param duration formData string false "Client-side duration, used when probing fails"
// @Success 201 {object} models.UploadResponse
// @Success 200 {object} models.ThumbnailResponse "Thumbnail stored"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 401 {object} models.ErrorResponse "Authentication required"
// @Failure 403 {object} models.ErrorResponse "Uploader mismatch"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /upload [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.RespondErrorDetails(w, http.StatusRequestEntityTooLarge, "request body too large", err.Error())
			return
		}
		h.RespondErrorDetails(w, http.StatusBadRequest, "invalid request", "expected multipart/form-data body")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.RespondErrorDetails(w, http.StatusBadRequest, "invalid request", "file is required")
		return
	}
	defer file.Close()

	req := &models.UploadRequest{
		CallerID:         callerID,
		Type:             models.ContentType(strings.ToLower(strings.TrimSpace(r.FormValue("type")))),
		CourseID:         strings.TrimSpace(r.FormValue("courseId")),
		SectionID:        strings.TrimSpace(r.FormValue("sectionId")),
		ContentID:        strings.TrimSpace(r.FormValue("contentId")),
		Uploader:         strings.TrimSpace(r.FormValue("uploader")),
		Name:             strings.TrimSpace(r.FormValue("name")),
		Filename:         header.Filename,
		DeclaredDuration: r.FormValue("duration"),
		Payload:          file,
		Size:             header.Size,
		MimeType:         header.Header.Get("Content-Type"),
	}

	if raw := strings.TrimSpace(r.FormValue("order")); raw != "" {
		order, err := strconv.Atoi(raw)
		if err != nil {
			h.RespondErrorDetails(w, http.StatusBadRequest, "invalid request", "order must be an integer")
			return
		}
		req.Order = &order
	}

	result, err := h.uploadService.Upload(r.Context(), req)
	if err != nil {
		h.Logger.Warn("upload failed",
			zap.Error(err),
			zap.String("user_id", callerID),
			zap.String("type", string(req.Type)),
			zap.String("course_id", req.CourseID),
			zap.String("section_id", req.SectionID),
			zap.String("content_id", req.ContentID),
		)
		h.RespondServiceError(w, err, "upload failed")
		return
	}

	if result.Type == models.ContentTypeThumbnail {
		h.RespondJSON(w, http.StatusOK, models.ThumbnailResponse{ThumbnailURL: result.Key})
		return
	}

	h.RespondJSON(w, http.StatusCreated, models.UploadResponse{
		FileURL:  result.Key,
		Duration: result.Duration,
	})
}
