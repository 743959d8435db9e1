package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rougebyt/b2-backend/internal/models"
	"github.com/rougebyt/b2-backend/internal/services"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, models.ErrorResponse{Error: message})
}

// RespondErrorDetails sends an error JSON response with a detail string
func (h *BaseHandler) RespondErrorDetails(w http.ResponseWriter, status int, message, details string) {
	h.RespondJSON(w, status, models.ErrorResponse{Error: message, Details: details})
}

// RespondServiceError maps a service error to its status code.
// Validation errors carry their message as details, downstream failures only the fallback message.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, services.ErrInvalidRequest):
		h.RespondErrorDetails(w, http.StatusBadRequest, "invalid request", err.Error())
	case errors.Is(err, services.ErrUploaderMismatch):
		h.RespondErrorDetails(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, services.ErrNotFound):
		h.RespondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrStorage):
		h.RespondErrorDetails(w, http.StatusInternalServerError, fallback, "object store failure")
	case errors.Is(err, services.ErrMetadata):
		h.RespondErrorDetails(w, http.StatusInternalServerError, fallback, "metadata store failure")
	default:
		h.RespondError(w, http.StatusInternalServerError, fallback)
	}
}
