package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rougebyt/b2-backend/internal/models"
)

// courseRepository reads course trees and maintains their duration totals
type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

// GetAll returns every course with its sections and contents, ordered by course id
func (r *courseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	courses, err := r.loadCourses(ctx, "", nil)
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// GetByID returns a single course tree or ErrNotFound
func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	courses, err := r.loadCourses(ctx, "WHERE %s = ?", []any{id})
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	return &courses[0], nil
}

// ListIDs returns every course id in order
func (r *courseRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM courses ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list course ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan course id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate course ids: %w", err)
	}

	return ids, nil
}

// RecalculateDurations recomputes every section total and the course total of one course
func (r *courseRepository) RecalculateDurations(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var locked string
	err = tx.QueryRowContext(ctx, "SELECT id FROM courses WHERE id = ? FOR UPDATE", id).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("course %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to lock course: %w", err)
	}

	rows, err := tx.QueryContext(ctx, "SELECT id FROM sections WHERE course_id = ? ORDER BY id", id)
	if err != nil {
		return fmt.Errorf("failed to list sections: %w", err)
	}
	var sectionIDs []string
	for rows.Next() {
		var sectionID string
		if err := rows.Scan(&sectionID); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan section: %w", err)
		}
		sectionIDs = append(sectionIDs, sectionID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to list sections: %w", err)
	}
	rows.Close()

	for _, sectionID := range sectionIDs {
		if err := recalculateSection(ctx, tx, id, sectionID); err != nil {
			return err
		}
	}
	if err := recalculateCourse(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// loadCourses assembles course trees with three queries.
// filter is a WHERE clause with one %s placeholder for the course id column.
func (r *courseRepository) loadCourses(ctx context.Context, filter string, args []any) ([]models.Course, error) {
	where := func(column string) string {
		if filter == "" {
			return ""
		}
		return fmt.Sprintf(filter, column)
	}

	courseQuery := fmt.Sprintf(`
		SELECT id, thumbnail_key, total_duration_seconds, total_duration
		FROM courses
		%s
		ORDER BY id
	`, where("id"))

	rows, err := r.db.QueryContext(ctx, courseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}
	defer rows.Close()

	courses := make([]models.Course, 0)
	courseIndex := make(map[string]int)
	for rows.Next() {
		var course models.Course
		var thumbnail sql.NullString
		if err := rows.Scan(&course.ID, &thumbnail, &course.TotalDurationSeconds, &course.TotalDuration); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		if thumbnail.Valid {
			course.ThumbnailKey = &thumbnail.String
		}
		course.Sections = make([]models.Section, 0)
		courseIndex[course.ID] = len(courses)
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate courses: %w", err)
	}
	if len(courses) == 0 {
		return courses, nil
	}

	sectionQuery := fmt.Sprintf(`
		SELECT course_id, id, total_duration_seconds, total_duration
		FROM sections
		%s
		ORDER BY course_id, id
	`, where("course_id"))

	sectionRows, err := r.db.QueryContext(ctx, sectionQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get sections: %w", err)
	}
	defer sectionRows.Close()

	type sectionRef struct{ course, section int }
	sectionIndex := make(map[[2]string]sectionRef)
	for sectionRows.Next() {
		var section models.Section
		if err := sectionRows.Scan(&section.CourseID, &section.ID, &section.TotalDurationSeconds, &section.TotalDuration); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		ci, ok := courseIndex[section.CourseID]
		if !ok {
			continue
		}
		section.Contents = make([]models.Content, 0)
		sectionIndex[[2]string{section.CourseID, section.ID}] = sectionRef{course: ci, section: len(courses[ci].Sections)}
		courses[ci].Sections = append(courses[ci].Sections, section)
	}
	if err := sectionRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sections: %w", err)
	}

	contentQuery := fmt.Sprintf(`
		SELECT course_id, section_id, id, title, type, storage_key, uploaded_by, uploaded_at, duration_seconds, order_index
		FROM contents
		%s
		ORDER BY course_id, section_id, order_index IS NULL, order_index, id
	`, where("course_id"))

	contentRows, err := r.db.QueryContext(ctx, contentQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get contents: %w", err)
	}
	defer contentRows.Close()

	for contentRows.Next() {
		var content models.Content
		var duration, order sql.NullInt64
		if err := contentRows.Scan(
			&content.CourseID,
			&content.SectionID,
			&content.ID,
			&content.Title,
			&content.Type,
			&content.StorageKey,
			&content.UploadedBy,
			&content.UploadedAt,
			&duration,
			&order,
		); err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		if duration.Valid {
			seconds := int(duration.Int64)
			content.DurationSeconds = &seconds
			content.Duration = models.FormatDuration(seconds)
		}
		if order.Valid {
			o := int(order.Int64)
			content.Order = &o
		}

		ref, ok := sectionIndex[[2]string{content.CourseID, content.SectionID}]
		if !ok {
			continue
		}
		section := &courses[ref.course].Sections[ref.section]
		section.Contents = append(section.Contents, content)
	}
	if err := contentRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contents: %w", err)
	}

	return courses, nil
}
