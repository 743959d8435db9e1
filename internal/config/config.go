// Package config provides configuration for the application
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Storage providers supported by the object store layer
const (
	StorageProviderB2  = "b2"
	StorageProviderGCS = "gcs"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	Firebase FirebaseConfig
	Storage  StorageConfig
	Probe    ProbeConfig
	Repair   RepairConfig
	APIKey   string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port           int
	MaxUploadBytes int64
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// FirebaseConfig holds identity provider settings.
// ServiceAccountJSON is the raw service account credential, ProjectID is read from it.
type FirebaseConfig struct {
	ServiceAccountJSON string
	ProjectID          string
	JWKSURL            string
	JWKSRefresh        time.Duration
}

// StorageConfig holds object store settings
type StorageConfig struct {
	Provider string
	B2       B2Config
	GCS      GCSConfig
}

// B2Config holds Backblaze B2 credentials (S3-compatible API)
type B2Config struct {
	KeyID          string
	ApplicationKey string
	BucketID       string
	BucketName     string
	Endpoint       string
	Region         string
}

// GCSConfig holds Google Cloud Storage settings.
// Credentials come from Application Default Credentials.
type GCSConfig struct {
	Bucket string
}

// ProbeConfig holds media probing settings
type ProbeConfig struct {
	FFprobePath string
	Timeout     time.Duration
}

// RepairConfig holds the duration repair job settings.
// An empty Schedule disables the job.
type RepairConfig struct {
	Schedule string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Database configuration
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		dbPortStr = "3306"
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	cfg.Database.Password = os.Getenv("DB_PASSWORD")

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	// Server configuration
	serverPortStr := os.Getenv("PORT")
	if serverPortStr == "" {
		serverPortStr = "8080" // default port
	}
	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.Server.Port = serverPort

	maxUploadStr := os.Getenv("MAX_UPLOAD_MB")
	if maxUploadStr == "" {
		maxUploadStr = "500"
	}
	maxUploadMB, err := strconv.Atoi(maxUploadStr)
	if err != nil || maxUploadMB <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %q", maxUploadStr)
	}
	cfg.Server.MaxUploadBytes = int64(maxUploadMB) << 20

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// Identity provider configuration. Missing credentials are fatal at startup.
	serviceAccount := os.Getenv("FIREBASE_SERVICE_ACCOUNT")
	if serviceAccount == "" {
		return nil, fmt.Errorf("FIREBASE_SERVICE_ACCOUNT is required")
	}
	projectID, err := ProjectIDFromServiceAccount(serviceAccount)
	if err != nil {
		return nil, err
	}
	cfg.Firebase.ServiceAccountJSON = serviceAccount
	cfg.Firebase.ProjectID = projectID

	cfg.Firebase.JWKSURL = os.Getenv("FIREBASE_JWKS_URL")
	if cfg.Firebase.JWKSURL == "" {
		cfg.Firebase.JWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	}
	cfg.Firebase.JWKSRefresh, err = durationEnv("FIREBASE_JWKS_REFRESH", "1h")
	if err != nil {
		return nil, err
	}

	// Object store configuration. Credentials are checked lazily on first use.
	provider := strings.ToLower(os.Getenv("STORAGE_PROVIDER"))
	if provider == "" {
		provider = StorageProviderB2
	}
	if provider != StorageProviderB2 && provider != StorageProviderGCS {
		return nil, fmt.Errorf("invalid STORAGE_PROVIDER: %q", provider)
	}
	cfg.Storage.Provider = provider

	cfg.Storage.B2.KeyID = os.Getenv("B2_KEY_ID")
	cfg.Storage.B2.ApplicationKey = os.Getenv("B2_APPLICATION_KEY")
	cfg.Storage.B2.BucketID = os.Getenv("B2_BUCKET_ID")
	cfg.Storage.B2.BucketName = os.Getenv("B2_BUCKET_NAME")
	cfg.Storage.B2.Region = os.Getenv("B2_REGION")
	if cfg.Storage.B2.Region == "" {
		cfg.Storage.B2.Region = "us-west-004"
	}
	cfg.Storage.B2.Endpoint = os.Getenv("B2_ENDPOINT")
	if cfg.Storage.B2.Endpoint == "" {
		cfg.Storage.B2.Endpoint = fmt.Sprintf("https://s3.%s.backblazeb2.com", cfg.Storage.B2.Region)
	}

	cfg.Storage.GCS.Bucket = os.Getenv("GCS_BUCKET")

	// Media probing configuration
	cfg.Probe.FFprobePath = os.Getenv("FFPROBE_PATH")
	if cfg.Probe.FFprobePath == "" {
		cfg.Probe.FFprobePath = "ffprobe"
	}
	cfg.Probe.Timeout, err = durationEnv("FFPROBE_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	// Duration repair job, standard cron syntax or a descriptor such as @daily
	cfg.Repair.Schedule = os.Getenv("DURATION_REPAIR_SCHEDULE")
	switch cfg.Repair.Schedule {
	case "":
		cfg.Repair.Schedule = "@daily"
	case "off":
		cfg.Repair.Schedule = ""
	}
	if cfg.Repair.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Repair.Schedule); err != nil {
			return nil, fmt.Errorf("invalid DURATION_REPAIR_SCHEDULE: %w", err)
		}
	}

	// API Key configuration (optional, protects maintenance endpoints)
	cfg.APIKey = os.Getenv("API_KEY")

	return cfg, nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// B2Configured reports whether all B2 credentials are present
func (c StorageConfig) B2Configured() bool {
	return c.B2.KeyID != "" && c.B2.ApplicationKey != "" && c.B2.BucketName != ""
}

// ProjectIDFromServiceAccount extracts project_id from a service account JSON credential
func ProjectIDFromServiceAccount(raw string) (string, error) {
	var account struct {
		Type      string `json:"type"`
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal([]byte(raw), &account); err != nil {
		return "", fmt.Errorf("invalid FIREBASE_SERVICE_ACCOUNT: %w", err)
	}
	if account.ProjectID == "" {
		return "", fmt.Errorf("invalid FIREBASE_SERVICE_ACCOUNT: project_id is missing")
	}
	return account.ProjectID, nil
}

// parseOrigins parses a comma-separated origin list, defaulting to all origins
func parseOrigins(raw string) []string {
	if raw == "" {
		// Default to allow all origins if not specified (for development)
		return []string{"*"}
	}

	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func durationEnv(name, fallback string) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		raw = fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return d, nil
}
