package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rougebyt/b2-backend/internal/auth"
	"github.com/rougebyt/b2-backend/internal/models"
	"go.uber.org/zap"
)

// FileURLService defines the interface for signed URL issuing
type FileURLService interface {
	IssueURL(ctx context.Context, callerID, key string) (string, error)
}

// FileURLHandler handles signed download URL requests
type FileURLHandler struct {
	BaseHandler
	fileURLService FileURLService
}

// NewFileURLHandler creates a new file URL handler
func NewFileURLHandler(fileURLService FileURLService, logger *zap.Logger) *FileURLHandler {
	return &FileURLHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		fileURLService: fileURLService,
	}
}

// RegisterRoutes registers the file URL route. The router must apply authentication.
func (h *FileURLHandler) RegisterRoutes(r chi.Router) {
	r.Get("/file-url", h.GetFileURL)
}

// GetFileURL handles GET /file-url
// @Summary Get a signed download URL
// @Description Issue a download URL for a stored object, valid for one hour
// @Tags files
// @Produce json
// @Security BearerAuth
// @Param file query string true "Storage key"
// @Success 200 {object} models.FileURLResponse
// @Failure 400 {object} models.ErrorResponse "Missing or invalid key"
// @Failure 401 {object} models.ErrorResponse "Authentication required"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /file-url [get]
func (h *FileURLHandler) GetFileURL(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	key := r.URL.Query().Get("file")
	if key == "" {
		h.RespondErrorDetails(w, http.StatusBadRequest, "invalid request", "file query parameter is required")
		return
	}

	url, err := h.fileURLService.IssueURL(r.Context(), callerID, key)
	if err != nil {
		h.Logger.Warn("failed to issue file url", zap.Error(err), zap.String("key", key), zap.String("user_id", callerID))
		h.RespondServiceError(w, err, "failed to generate file url")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.FileURLResponse{URL: url})
}
