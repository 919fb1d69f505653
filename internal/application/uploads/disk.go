package uploads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore writes images under Dir and serves them from PublicBaseURL.
type DiskStore struct {
	Dir           string
	PublicBaseURL string
}

func (s *DiskStore) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	obj := objectName(name, contentType)
	full := filepath.Join(s.Dir, filepath.FromSlash(obj))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("uploads: mkdir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("uploads: write: %w", err)
	}
	return strings.TrimRight(s.PublicBaseURL, "/") + "/" + obj, nil
}

// Delete removes a file previously returned by Save. Unknown URLs are ignored.
func (s *DiskStore) Delete(ctx context.Context, url string) error {
	prefix := strings.TrimRight(s.PublicBaseURL, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	rel := strings.TrimPrefix(url, prefix)
	if strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
