package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rougebyt/b2-backend/internal/config"
	"github.com/rougebyt/b2-backend/internal/models"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness and which configuration is present
type HealthHandler struct {
	BaseHandler
	cfg *config.Config
	db  Pinger
}

// NewHealthHandler creates a new health handler. db may be nil.
func NewHealthHandler(cfg *config.Config, db Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		cfg:         cfg,
		db:          db,
	}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
}

// Health handles GET /health
// @Summary Health check
// @Description Always 200. Reports which required settings are present and whether the database answers.
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	storage := h.cfg.Storage
	env := map[string]bool{
		"firebaseServiceAccount": h.cfg.Firebase.ServiceAccountJSON != "",
		"storageProvider":        storage.Provider != "",
		"b2KeyId":                storage.B2.KeyID != "",
		"b2ApplicationKey":       storage.B2.ApplicationKey != "",
		"b2BucketId":             storage.B2.BucketID != "",
		"b2BucketName":           storage.B2.BucketName != "",
		"gcsBucket":              storage.GCS.Bucket != "",
		"database":               h.databaseReachable(r.Context()),
	}

	h.RespondJSON(w, http.StatusOK, models.HealthResponse{Status: "ok", Env: env})
}

func (h *HealthHandler) databaseReachable(ctx context.Context) bool {
	if h.db == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		h.Logger.Warn("database ping failed", zap.Error(err))
		return false
	}
	return true
}
