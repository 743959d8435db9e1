package models

// Course represents a course with its nested sections
type Course struct {
	ID                   string    `json:"id"`
	ThumbnailKey         *string   `json:"thumbnailKey,omitempty"`
	TotalDurationSeconds int       `json:"totalDurationSeconds"`
	TotalDuration        string    `json:"totalDuration"`
	Sections             []Section `json:"sections"`
}

// Section represents a section nested under a course
type Section struct {
	ID                   string    `json:"id"`
	CourseID             string    `json:"courseId"`
	TotalDurationSeconds int       `json:"totalDurationSeconds"`
	TotalDuration        string    `json:"totalDuration"`
	Contents             []Content `json:"contents"`
}
