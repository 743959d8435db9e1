package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rougebyt/b2-backend/internal/models"
)

// recalculateSection stores the sum of video durations of one section
func recalculateSection(ctx context.Context, tx *sql.Tx, courseID, sectionID string) error {
	var total int64
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(duration_seconds), 0)
		FROM contents
		WHERE course_id = ? AND section_id = ? AND type = ?
	`, courseID, sectionID, models.ContentTypeVideo).Scan(&total)
	if err != nil {
		return fmt.Errorf("failed to sum section duration: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE sections SET total_duration_seconds = ?, total_duration = ?
		WHERE course_id = ? AND id = ?
	`, total, models.FormatDuration(int(total)), courseID, sectionID); err != nil {
		return fmt.Errorf("failed to store section duration: %w", err)
	}

	return nil
}

// recalculateCourse stores the sum of video durations across all sections of a course
func recalculateCourse(ctx context.Context, tx *sql.Tx, courseID string) error {
	var total int64
	err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(duration_seconds), 0)
		FROM contents
		WHERE course_id = ? AND type = ?
	`, courseID, models.ContentTypeVideo).Scan(&total)
	if err != nil {
		return fmt.Errorf("failed to sum course duration: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE courses SET total_duration_seconds = ?, total_duration = ?
		WHERE id = ?
	`, total, models.FormatDuration(int(total)), courseID); err != nil {
		return fmt.Errorf("failed to store course duration: %w", err)
	}

	return nil
}
