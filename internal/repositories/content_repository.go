package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rougebyt/b2-backend/internal/models"
)

// contentRepository writes content documents and course thumbnails
type contentRepository struct {
	db *sql.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *sql.DB) *contentRepository {
	return &contentRepository{
		db: db,
	}
}

// UpsertContent creates or overwrites a content document, creating its course and section
// on first write, then recomputes the section and course duration totals in the same transaction.
func (r *contentRepository) UpsertContent(ctx context.Context, content *models.Content) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The duplicate-key path locks the course row until commit, so writers of one course are serialized
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO courses (id) VALUES (?)
		ON DUPLICATE KEY UPDATE id = id
	`, content.CourseID); err != nil {
		return fmt.Errorf("failed to ensure course: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sections (course_id, id) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE id = id
	`, content.CourseID, content.SectionID); err != nil {
		return fmt.Errorf("failed to ensure section: %w", err)
	}

	query := `
		INSERT INTO contents (course_id, section_id, id, title, type, storage_key, uploaded_by, uploaded_at, duration_seconds, order_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			title = VALUES(title),
			type = VALUES(type),
			storage_key = VALUES(storage_key),
			uploaded_by = VALUES(uploaded_by),
			uploaded_at = VALUES(uploaded_at),
			duration_seconds = VALUES(duration_seconds),
			order_index = VALUES(order_index)
	`
	if _, err := tx.ExecContext(ctx, query,
		content.CourseID,
		content.SectionID,
		content.ID,
		content.Title,
		content.Type,
		content.StorageKey,
		content.UploadedBy,
		content.UploadedAt,
		nullableInt(content.DurationSeconds),
		nullableInt(content.Order),
	); err != nil {
		return fmt.Errorf("failed to upsert content: %w", err)
	}

	if err := recalculateSection(ctx, tx, content.CourseID, content.SectionID); err != nil {
		return err
	}
	if err := recalculateCourse(ctx, tx, content.CourseID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateCourseThumbnail sets the course thumbnail key, creating the course if needed
func (r *contentRepository) UpdateCourseThumbnail(ctx context.Context, courseID, key string) error {
	query := `
		INSERT INTO courses (id, thumbnail_key) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE thumbnail_key = VALUES(thumbnail_key)
	`

	if _, err := r.db.ExecContext(ctx, query, courseID, key); err != nil {
		return fmt.Errorf("failed to update course thumbnail: %w", err)
	}

	return nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}
