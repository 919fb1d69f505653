package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SupabaseStore uploads images to a public Supabase storage bucket.
type SupabaseStore struct {
	BaseURL   string
	SecretKey string // must be the service_role key, not the anon key
	Bucket    string
	Client    *http.Client
}

// defaultClient serves stores built without a Client. The store itself is
// never written after construction since requests share it.
var defaultClient = &http.Client{Timeout: 30 * time.Second}

func (s *SupabaseStore) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return defaultClient
}

func (s *SupabaseStore) base() string {
	return strings.TrimRight(s.BaseURL, "/")
}

func (s *SupabaseStore) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if s.BaseURL == "" {
		return "", fmt.Errorf("supabase: SUPABASE_URL is not set")
	}
	if s.SecretKey == "" {
		return "", fmt.Errorf("supabase: SUPABASE_SECRET_KEY is not set")
	}
	obj := objectName(name, contentType)
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.base(), s.Bucket, obj)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	// Same headers as @supabase/supabase-js: apikey and Bearer carry the same key.
	req.Header.Set("apikey", s.SecretKey)
	req.Header.Set("Authorization", "Bearer "+s.SecretKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := s.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("supabase request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := string(body)
		if (resp.StatusCode == 400 || resp.StatusCode == 403) &&
			(strings.Contains(bodyStr, "Invalid Compact JWS") || strings.Contains(bodyStr, "Unauthorized")) {
			return "", fmt.Errorf("supabase storage requires the service_role key, not the anon key (raw body: %s)", bodyStr)
		}
		return "", fmt.Errorf("supabase error: status %d body: %s", resp.StatusCode, bodyStr)
	}
	return s.publicURL(obj), nil
}

func (s *SupabaseStore) publicURL(obj string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.base(), s.Bucket, obj)
}

// Delete removes an object by its public URL. URLs of other buckets are ignored.
func (s *SupabaseStore) Delete(ctx context.Context, url string) error {
	prefix := s.publicURL("")
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	obj := strings.TrimPrefix(url, prefix)
	target := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.base(), s.Bucket, obj)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", s.SecretKey)
	req.Header.Set("Authorization", "Bearer "+s.SecretKey)
	resp, err := s.client().Do(req)
	if err != nil {
		return fmt.Errorf("supabase request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("supabase delete failed: status %d", resp.StatusCode)
	}
	return nil
}
