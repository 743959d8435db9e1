package storage

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rougebyt/b2-backend/internal/models"
)

type keyLayout struct {
	prefix string
	tag    string
}

var keyLayouts = map[models.ContentType]keyLayout{
	models.ContentTypeVideo:     {prefix: "videos", tag: "vid"},
	models.ContentTypePDF:       {prefix: "pdfs", tag: "pdf"},
	models.ContentTypeThumbnail: {prefix: "thumbnails", tag: "thumb"},
}

// GenerateKey builds a storage key of the form {prefix}/{tag}_{uuid}.{ext},
// e.g. videos/vid_0f8c....mp4. The extension is lower-cased and may carry a leading dot.
func GenerateKey(contentType models.ContentType, extension string) (string, error) {
	layout, ok := keyLayouts[contentType]
	if !ok {
		return "", fmt.Errorf("no key layout for content type %q", contentType)
	}

	ext := strings.ToLower(strings.TrimPrefix(extension, "."))
	if ext == "" {
		return "", fmt.Errorf("extension is required")
	}

	return fmt.Sprintf("%s/%s_%s.%s", layout.prefix, layout.tag, uuid.New().String(), ext), nil
}

// ValidateKey rejects keys that could escape the bucket namespace
func ValidateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("key is required")
	case len(key) > 1024:
		return fmt.Errorf("key is too long")
	case strings.HasPrefix(key, "/"):
		return fmt.Errorf("key must be relative")
	case strings.Contains(key, ".."):
		return fmt.Errorf("key must not contain '..'")
	case strings.ContainsAny(key, "\\\x00"):
		return fmt.Errorf("key contains invalid characters")
	}
	return nil
}
