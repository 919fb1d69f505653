package uploads

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists listing images and returns the URL they are served from.
type Store interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// objectName builds a unique, date-prefixed object path for one image.
func objectName(name, contentType string) string {
	ext := extensions[contentType]
	if ext == "" {
		ext = strings.ToLower(path.Ext(name))
	}
	return fmt.Sprintf("%s/%s%s", time.Now().UTC().Format("2006/01"), uuid.New().String(), ext)
}
