package models

import "io"

// UploadRequest is the validated input of the upload pipeline.
// SectionID and ContentID are required unless Type is thumbnail.
type UploadRequest struct {
	CallerID  string
	Type      ContentType
	CourseID  string
	SectionID string
	ContentID string
	Uploader  string
	Name      string
	Filename  string
	// Order is optional and only stored on content documents
	Order *int
	// DeclaredDuration is the client-supplied duration, used when probing fails
	DeclaredDuration string
	Payload          io.ReadSeeker
	Size             int64
	MimeType         string
}

// UploadResult is returned by a successful upload
type UploadResult struct {
	Key             string
	Type            ContentType
	DurationSeconds *int
	Duration        string
}

// UploadResponse is the JSON body returned for content uploads
type UploadResponse struct {
	FileURL  string `json:"fileUrl"`
	Duration string `json:"duration,omitempty"`
}

// ThumbnailResponse is the JSON body returned for thumbnail uploads
type ThumbnailResponse struct {
	ThumbnailURL string `json:"thumbnailUrl"`
}

// FileURLResponse is the JSON body returned by the signed URL endpoint
type FileURLResponse struct {
	URL string `json:"url"`
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse reports liveness and configuration presence
type HealthResponse struct {
	Status string          `json:"status"`
	Env    map[string]bool `json:"env"`
}
