package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rougebyt/b2-backend/internal/middlewares"
	"go.uber.org/zap"
)

// TokenVerifier verifies a bearer token
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware validates the bearer ID token and stores the caller identity in the context
func AuthMiddleware(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeError(w, http.StatusUnauthorized, "authentication required", "missing bearer token")
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Info("token verification failed",
					zap.String("request_id", middlewares.GetRequestID(r.Context())),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, "invalid or expired token", "")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity stores the caller identity in the context
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetUserID retrieves the caller uid from context
func GetUserID(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	if !ok || identity == nil || identity.UID == "" {
		return "", false
	}
	return identity.UID, true
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if details == "" {
		w.Write([]byte(`{"error":"` + message + `"}`))
		return
	}
	w.Write([]byte(`{"error":"` + message + `","details":"` + details + `"}`))
}
