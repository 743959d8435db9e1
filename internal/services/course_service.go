package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rougebyt/b2-backend/internal/models"
	"github.com/rougebyt/b2-backend/internal/repositories"
)

// CourseRepository defines the course reads and maintenance operations
type CourseRepository interface {
	GetAll(ctx context.Context) ([]models.Course, error)
	GetByID(ctx context.Context, id string) (*models.Course, error)
	ListIDs(ctx context.Context) ([]string, error)
	RecalculateDurations(ctx context.Context, id string) error
}

// CourseService handles business logic for course reads
type CourseService struct {
	repo CourseRepository
}

// NewCourseService creates a new course service
func NewCourseService(repo CourseRepository) *CourseService {
	return &CourseService{
		repo: repo,
	}
}

// ListCourses returns every course tree
func (s *CourseService) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetadata, err)
	}
	return courses, nil
}

// GetCourse returns one course tree
func (s *CourseService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: course id is required", ErrInvalidRequest)
	}

	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return course, nil
}

// RecalculateDurations rebuilds the section and course totals of a course from its contents
// and returns the refreshed course
func (s *CourseService) RecalculateDurations(ctx context.Context, id string) (*models.Course, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: course id is required", ErrInvalidRequest)
	}

	if err := s.repo.RecalculateDurations(ctx, id); err != nil {
		return nil, mapRepositoryError(err)
	}

	return s.GetCourse(ctx, id)
}

// RecalculateAll rebuilds duration totals for every course.
// A failing course does not stop the others; the returned error joins all failures.
func (s *CourseService) RecalculateAll(ctx context.Context) (int, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMetadata, err)
	}

	var errs []error
	repaired := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.repo.RecalculateDurations(ctx, id); err != nil {
			// A course deleted since listing is not a failure
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			errs = append(errs, fmt.Errorf("course %s: %w", id, err))
			continue
		}
		repaired++
	}

	return repaired, errors.Join(errs...)
}

func mapRepositoryError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %w", ErrMetadata, err)
}
