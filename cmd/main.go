package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/rougebyt/b2-backend/docs"
	"github.com/rougebyt/b2-backend/internal/auth"
	"github.com/rougebyt/b2-backend/internal/config"
	"github.com/rougebyt/b2-backend/internal/handlers"
	"github.com/rougebyt/b2-backend/internal/logger"
	loggerMiddleware "github.com/rougebyt/b2-backend/internal/logger/middleware"
	"github.com/rougebyt/b2-backend/internal/middlewares"
	"github.com/rougebyt/b2-backend/internal/probe"
	"github.com/rougebyt/b2-backend/internal/repositories"
	"github.com/rougebyt/b2-backend/internal/scheduler"
	"github.com/rougebyt/b2-backend/internal/services"
	"github.com/rougebyt/b2-backend/internal/storage"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const maxRequestSize = 1 << 20 // 1MB for non-upload bodies

// @title Course Media API
// @version 1.0
// @description Uploads course videos, PDFs and thumbnails to object storage and serves course trees
// @termsOfService http://swagger.io/terms/

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Firebase ID token, "Bearer <token>"
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key for maintenance endpoints
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting course media service",
		zap.String("storage_provider", cfg.Storage.Provider),
		zap.String("firebase_project", cfg.Firebase.ProjectID),
	)

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize token verifier
	verifier, err := auth.NewFirebaseVerifier(rootCtx, auth.FirebaseVerifierConfig{
		ProjectID:       cfg.Firebase.ProjectID,
		JWKSURL:         cfg.Firebase.JWKSURL,
		RefreshInterval: cfg.Firebase.JWKSRefresh,
	}, logger.Logger)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize token verifier", zap.Error(err))
	}

	// Object store session is created on first use
	objectStore := storage.NewStore(cfg.Storage)
	if cfg.Storage.Provider == config.StorageProviderB2 && !cfg.Storage.B2Configured() {
		logger.Logger.Warn("B2 credentials are incomplete, storage requests will fail until configured")
	}

	extractor := probe.NewFFprobe(cfg.Probe.FFprobePath, cfg.Probe.Timeout)

	// Initialize repositories
	contentRepo := repositories.NewContentRepository(db)
	courseRepo := repositories.NewCourseRepository(db)

	// Initialize services
	uploadService := services.NewUploadService(objectStore, contentRepo, extractor, logger.Logger)
	fileURLService := services.NewFileURLService(objectStore, services.DefaultURLTTL, logger.Logger)
	courseService := services.NewCourseService(courseRepo)

	// Periodic duration repair
	var repairJob *scheduler.DurationRepair
	if cfg.Repair.Schedule != "" {
		repairJob, err = scheduler.NewDurationRepair(courseService, cfg.Repair.Schedule, logger.Logger)
		if err != nil {
			logger.Logger.Fatal("Failed to initialize duration repair", zap.Error(err))
		}
		repairJob.Start()
	}

	// Initialize middleware
	authMw := auth.AuthMiddleware(verifier, logger.Logger)
	apiKeyMw := auth.APIKeyMiddleware(cfg.APIKey)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg, db, logger.Logger)
	uploadHandler := handlers.NewUploadHandler(uploadService, logger.Logger)
	fileURLHandler := handlers.NewFileURLHandler(fileURLService, logger.Logger)
	courseHandler := handlers.NewCourseHandler(courseService, logger.Logger)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(middlewares.RecoveryMiddleware(logger.Logger))
	r.Use(middlewares.MetricsMiddleware)
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middlewares.RequestSizeLimitMiddleware(maxRequestSize, cfg.Server.MaxUploadBytes))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))
	r.Handle("/metrics", promhttp.Handler())

	// Public endpoints
	healthHandler.RegisterRoutes(r)
	courseHandler.RegisterRoutes(r)

	// Endpoints that require a Firebase ID token
	r.Group(func(r chi.Router) {
		r.Use(authMw)
		uploadHandler.RegisterRoutes(r)
		fileURLHandler.RegisterRoutes(r)
	})

	// Maintenance endpoints require API key
	r.Group(func(r chi.Router) {
		r.Use(apiKeyMw)
		courseHandler.RegisterAdminRoutes(r)
	})

	// Start server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Minute, // Large video uploads
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if repairJob != nil {
		repairJob.Stop(ctx)
	}
	stop()

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "media_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
