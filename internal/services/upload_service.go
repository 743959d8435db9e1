package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rougebyt/b2-backend/internal/models"
	"github.com/rougebyt/b2-backend/internal/storage"
	"go.uber.org/zap"
)

// ContentRepository defines the metadata writes performed by the upload pipeline
type ContentRepository interface {
	UpsertContent(ctx context.Context, content *models.Content) error
	UpdateCourseThumbnail(ctx context.Context, courseID, key string) error
}

// DurationExtractor reads the playback duration of a video payload in whole seconds
type DurationExtractor interface {
	Duration(ctx context.Context, payload io.Reader) (int, error)
}

// allowedExtensions lists accepted file extensions per content type
var allowedExtensions = map[models.ContentType][]string{
	models.ContentTypeVideo:     {"mp4", "mov", "m4v", "webm", "mkv", "avi"},
	models.ContentTypePDF:       {"pdf"},
	models.ContentTypeThumbnail: {"jpg", "jpeg", "png", "webp"},
}

// UploadService stores media in the object store and records it in the metadata store
type UploadService struct {
	store     storage.ObjectStore
	contents  ContentRepository
	extractor DurationExtractor
	logger    *zap.Logger
	now       func() time.Time
}

// NewUploadService creates a new upload service
func NewUploadService(store storage.ObjectStore, contents ContentRepository, extractor DurationExtractor, logger *zap.Logger) *UploadService {
	return &UploadService{
		store:     store,
		contents:  contents,
		extractor: extractor,
		logger:    logger,
		now:       time.Now,
	}
}

// Upload validates the request, stores the payload under a fresh key and writes its metadata.
// The request is fully validated before anything is stored. If the metadata write fails the
// stored object is deleted best-effort and ErrMetadata is returned.
func (s *UploadService) Upload(ctx context.Context, req *models.UploadRequest) (*models.UploadResult, error) {
	ext, err := s.validate(req)
	if err != nil {
		uploadsTotal.WithLabelValues(typeLabel(req.Type), resultRejected).Inc()
		return nil, err
	}

	key, err := storage.GenerateKey(req.Type, ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	log := s.logger.With(
		zap.String("type", string(req.Type)),
		zap.String("course_id", req.CourseID),
		zap.String("section_id", req.SectionID),
		zap.String("content_id", req.ContentID),
		zap.String("key", key),
	)

	result := &models.UploadResult{
		Key:  key,
		Type: req.Type,
	}

	if req.Type == models.ContentTypeVideo {
		seconds := s.extractDuration(ctx, req, log)
		result.DurationSeconds = &seconds
		result.Duration = models.FormatDuration(seconds)

		if _, err := req.Payload.Seek(0, io.SeekStart); err != nil {
			uploadsTotal.WithLabelValues(string(req.Type), resultStorageError).Inc()
			return nil, fmt.Errorf("%w: failed to rewind payload: %w", ErrStorage, err)
		}
	}

	info, err := s.store.Upload(ctx, key, req.Payload, req.Size, contentTypeFor(ext, req.MimeType))
	if err != nil {
		log.Error("failed to upload object", zap.Error(err))
		uploadsTotal.WithLabelValues(string(req.Type), resultStorageError).Inc()
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	uploadedBytesTotal.WithLabelValues(string(req.Type)).Add(float64(info.Size))

	if err := s.writeMetadata(ctx, req, result); err != nil {
		log.Error("failed to write metadata", zap.Error(err))
		s.discardObject(ctx, key, info, log)
		uploadsTotal.WithLabelValues(string(req.Type), resultMetadataError).Inc()
		return nil, fmt.Errorf("%w: %w", ErrMetadata, err)
	}

	log.Info("upload stored", zap.Int64("size", info.Size), zap.String("duration", result.Duration))
	uploadsTotal.WithLabelValues(string(req.Type), resultSuccess).Inc()

	return result, nil
}

// validate checks the request in order: required fields, uploader, type, extension.
// It returns the lower-cased extension without the dot.
func (s *UploadService) validate(req *models.UploadRequest) (string, error) {
	if req.CallerID == "" {
		return "", ErrUnauthenticated
	}

	var missing []string
	if req.Type == "" {
		missing = append(missing, "type")
	}
	if req.CourseID == "" {
		missing = append(missing, "courseId")
	}
	if req.Uploader == "" {
		missing = append(missing, "uploader")
	}
	if req.Name == "" {
		missing = append(missing, "name")
	}
	if req.Type != models.ContentTypeThumbnail {
		if req.SectionID == "" {
			missing = append(missing, "sectionId")
		}
		if req.ContentID == "" {
			missing = append(missing, "contentId")
		}
	}
	if req.Filename == "" || req.Payload == nil {
		missing = append(missing, "file")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: missing required fields: %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}

	if req.Uploader != req.CallerID {
		return "", ErrUploaderMismatch
	}

	if !req.Type.IsValid() {
		return "", fmt.Errorf("%w: unsupported type %q", ErrInvalidRequest, req.Type)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(req.Filename), "."))
	if !slices.Contains(allowedExtensions[req.Type], ext) {
		return "", fmt.Errorf("%w: extension %q is not allowed for %s", ErrInvalidRequest, ext, req.Type)
	}

	if req.Order != nil && *req.Order < 0 {
		return "", fmt.Errorf("%w: order must not be negative", ErrInvalidRequest)
	}

	return ext, nil
}

// extractDuration never fails: on probe errors it falls back to the declared duration, then to zero
func (s *UploadService) extractDuration(ctx context.Context, req *models.UploadRequest, log *zap.Logger) int {
	seconds, err := s.extractor.Duration(ctx, req.Payload)
	if err == nil && (seconds < 0 || seconds > models.MaxDurationSeconds) {
		err = fmt.Errorf("extracted duration %d out of range", seconds)
	}
	if err == nil {
		return seconds
	}

	probeFailuresTotal.Inc()
	declared, parseErr := models.ParseDuration(req.DeclaredDuration)
	if parseErr != nil {
		declared = 0
	}
	log.Warn("failed to extract duration, using fallback",
		zap.Error(err),
		zap.String("declared_duration", req.DeclaredDuration),
		zap.Int("fallback_seconds", declared),
	)
	return declared
}

func (s *UploadService) writeMetadata(ctx context.Context, req *models.UploadRequest, result *models.UploadResult) error {
	if req.Type == models.ContentTypeThumbnail {
		return s.contents.UpdateCourseThumbnail(ctx, req.CourseID, result.Key)
	}

	content := &models.Content{
		ID:              req.ContentID,
		CourseID:        req.CourseID,
		SectionID:       req.SectionID,
		Title:           req.Name,
		Type:            req.Type,
		StorageKey:      result.Key,
		UploadedBy:      req.Uploader,
		UploadedAt:      s.now().UTC(),
		DurationSeconds: result.DurationSeconds,
		Duration:        result.Duration,
		Order:           req.Order,
	}
	return s.contents.UpsertContent(ctx, content)
}

// discardObject removes an object whose metadata could not be written. Failures are only logged.
func (s *UploadService) discardObject(ctx context.Context, key string, info *storage.ObjectInfo, log *zap.Logger) {
	if err := s.store.Delete(context.WithoutCancel(ctx), key, info.VersionID); err != nil {
		log.Error("failed to delete orphaned object", zap.String("version_id", info.VersionID), zap.Error(err))
		compensatingDeletesTotal.WithLabelValues("error").Inc()
		return
	}
	log.Info("deleted orphaned object", zap.String("version_id", info.VersionID))
	compensatingDeletesTotal.WithLabelValues(resultSuccess).Inc()
}

// contentTypeFor prefers the client-declared MIME type and falls back to the extension
func contentTypeFor(ext, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension("." + ext); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

// typeLabel keeps client-supplied types out of metric labels
func typeLabel(t models.ContentType) string {
	if t.IsValid() {
		return string(t)
	}
	return "invalid"
}
