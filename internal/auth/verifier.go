// Package auth verifies Firebase ID tokens and guards routes
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrInvalidToken is returned for every token that fails verification
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the verified caller
type Identity struct {
	UID   string
	Email string
}

// Claims holds the Firebase ID token claims the service reads
type Claims struct {
	jwt.RegisteredClaims
	AuthTime int64  `json:"auth_time"`
	Email    string `json:"email,omitempty"`
}

// FirebaseVerifier validates Firebase ID tokens: RS256 signatures from Google's
// securetoken JWKS, issuer https://securetoken.google.com/<project>, audience <project>.
type FirebaseVerifier struct {
	keys      keyfunc.Keyfunc
	projectID string
	leeway    time.Duration
	now       func() time.Time
}

// FirebaseVerifierConfig configures the JWKS download
type FirebaseVerifierConfig struct {
	ProjectID       string
	JWKSURL         string
	RefreshInterval time.Duration
	ClientTimeout   time.Duration
}

// NewFirebaseVerifier creates a verifier whose keys are refreshed in the background
func NewFirebaseVerifier(ctx context.Context, cfg FirebaseVerifierConfig, logger *zap.Logger) (*FirebaseVerifier, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("project id is required")
	}
	if cfg.ClientTimeout == 0 {
		cfg.ClientTimeout = 10 * time.Second
	}

	// NoErrorReturnFirstHTTPReq lets the service start while the JWKS endpoint is unreachable
	storage, err := jwkset.NewStorageFromHTTP(cfg.JWKSURL, jwkset.HTTPClientStorageOptions{
		Client:                    &http.Client{Timeout: cfg.ClientTimeout},
		Ctx:                       ctx,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           cfg.RefreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("failed to refresh JWKS", zap.Error(err), zap.String("url", cfg.JWKSURL))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS storage: %w", err)
	}

	keys, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("failed to create keyfunc: %w", err)
	}

	return NewFirebaseVerifierWithKeyfunc(keys, cfg.ProjectID), nil
}

// NewFirebaseVerifierWithKeyfunc creates a verifier from an existing keyfunc
func NewFirebaseVerifierWithKeyfunc(keys keyfunc.Keyfunc, projectID string) *FirebaseVerifier {
	return &FirebaseVerifier{
		keys:      keys,
		projectID: projectID,
		leeway:    30 * time.Second,
		now:       time.Now,
	}
}

// Verify validates the token and returns the caller identity
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, v.keys.KeyfuncCtx(ctx),
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer("https://securetoken.google.com/"+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" || len(subject) > 128 {
		return nil, fmt.Errorf("%w: invalid subject", ErrInvalidToken)
	}
	if claims.AuthTime == 0 || time.Unix(claims.AuthTime, 0).After(v.now().Add(v.leeway)) {
		return nil, fmt.Errorf("%w: invalid auth_time", ErrInvalidToken)
	}

	return &Identity{UID: subject, Email: claims.Email}, nil
}
