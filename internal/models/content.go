package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ContentType represents the kind of uploaded asset
type ContentType string

const (
	ContentTypeVideo     ContentType = "video"
	ContentTypePDF       ContentType = "pdf"
	ContentTypeThumbnail ContentType = "thumbnail"
)

// IsValid reports whether the content type is one of the supported types
func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeVideo, ContentTypePDF, ContentTypeThumbnail:
		return true
	default:
		return false
	}
}

// Content represents a content document stored under a course section
type Content struct {
	ID              string      `json:"id"`
	CourseID        string      `json:"courseId"`
	SectionID       string      `json:"sectionId"`
	Title           string      `json:"title"`
	Type            ContentType `json:"type"`
	StorageKey      string      `json:"storageKey"`
	UploadedBy      string      `json:"uploadedBy"`
	UploadedAt      time.Time   `json:"uploadedAt"`
	DurationSeconds *int        `json:"durationSeconds,omitempty"`
	Duration        string      `json:"duration,omitempty"`
	Order           *int        `json:"order,omitempty"`
}

// FormatDuration renders seconds as MM:SS, or H:MM:SS from one hour up
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// MaxDurationSeconds is the largest duration that fits the duration_seconds column
const MaxDurationSeconds = math.MaxInt32

// ParseDuration accepts "SS", "MM:SS" or "H:MM:SS" (fractional seconds are truncated)
func ParseDuration(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty duration")
	}

	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}

	total := 0
	for i, part := range parts {
		var value int
		if i == len(parts)-1 {
			f, err := strconv.ParseFloat(part, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > MaxDurationSeconds {
				return 0, fmt.Errorf("invalid duration %q", raw)
			}
			value = int(f)
		} else {
			v, err := strconv.Atoi(part)
			if err != nil || v < 0 || v > MaxDurationSeconds {
				return 0, fmt.Errorf("invalid duration %q", raw)
			}
			value = v
		}
		if i > 0 && value >= 60 {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		total = total*60 + value
		if total > MaxDurationSeconds {
			return 0, fmt.Errorf("duration %q out of range", raw)
		}
	}
	return total, nil
}
