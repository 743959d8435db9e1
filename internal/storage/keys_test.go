package storage

import (
	"regexp"
	"testing"

	"github.com/rougebyt/b2-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uuidPattern = `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`

func TestGenerateKey(t *testing.T) {
	tests := []struct {
		name          string
		contentType   models.ContentType
		extension     string
		pattern       string
		expectedError bool
	}{
		{name: "video", contentType: models.ContentTypeVideo, extension: "mp4", pattern: `^videos/vid_` + uuidPattern + `\.mp4$`},
		{name: "video with dot and upper case", contentType: models.ContentTypeVideo, extension: ".MOV", pattern: `^videos/vid_` + uuidPattern + `\.mov$`},
		{name: "pdf", contentType: models.ContentTypePDF, extension: "pdf", pattern: `^pdfs/pdf_` + uuidPattern + `\.pdf$`},
		{name: "thumbnail", contentType: models.ContentTypeThumbnail, extension: "png", pattern: `^thumbnails/thumb_` + uuidPattern + `\.png$`},
		{name: "unknown type", contentType: "audio", extension: "mp3", expectedError: true},
		{name: "empty extension", contentType: models.ContentTypeVideo, extension: ".", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := GenerateKey(tt.contentType, tt.extension)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Regexp(t, regexp.MustCompile(tt.pattern), key)
		})
	}

	first, _ := GenerateKey(models.ContentTypeVideo, "mp4")
	second, _ := GenerateKey(models.ContentTypeVideo, "mp4")
	assert.NotEqual(t, first, second)
}

func TestValidateKey(t *testing.T) {
	assert.NoError(t, ValidateKey("videos/vid_123.mp4"))
	assert.Error(t, ValidateKey(""))
	assert.Error(t, ValidateKey("/videos/a.mp4"))
	assert.Error(t, ValidateKey("videos/../secrets"))
	assert.Error(t, ValidateKey("videos\\a.mp4"))
}
