package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rougebyt/b2-backend/internal/config"
	"github.com/rougebyt/b2-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPinger struct {
	err error
}

func (m mockPinger) PingContext(ctx context.Context) error {
	return m.err
}

func TestHealthHandler_Health(t *testing.T) {
	cfg := &config.Config{}
	cfg.Firebase.ServiceAccountJSON = `{"project_id":"p"}`
	cfg.Storage.Provider = config.StorageProviderB2
	cfg.Storage.B2.KeyID = "key"
	cfg.Storage.B2.BucketName = "bucket"

	tests := []struct {
		name     string
		db       Pinger
		database bool
	}{
		{name: "database reachable", db: mockPinger{}, database: true},
		{name: "database down still 200", db: mockPinger{err: errors.New("refused")}, database: false},
		{name: "no database", db: nil, database: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			NewHealthHandler(cfg, tt.db, zap.NewNop()).RegisterRoutes(r)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, http.StatusOK, w.Code)
			var resp models.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "ok", resp.Status)
			assert.True(t, resp.Env["firebaseServiceAccount"])
			assert.True(t, resp.Env["b2KeyId"])
			assert.False(t, resp.Env["b2ApplicationKey"])
			assert.True(t, resp.Env["b2BucketName"])
			assert.False(t, resp.Env["gcsBucket"])
			assert.Equal(t, tt.database, resp.Env["database"])
		})
	}
}
