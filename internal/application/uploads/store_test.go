package uploads

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStore_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s := &DiskStore{Dir: dir, PublicBaseURL: "/uploads/"}
	ctx := context.Background()

	url, err := s.Save(ctx, "front.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	rel := strings.TrimPrefix(url, "/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Delete(ctx, url))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, url), "second delete is a no-op")
	assert.NoError(t, s.Delete(ctx, "https://elsewhere/x.png"))
}

func TestDiskStore_UniqueNames(t *testing.T) {
	s := &DiskStore{Dir: t.TempDir(), PublicBaseURL: "/uploads"}
	a, err := s.Save(context.Background(), "a.jpg", "image/jpeg", []byte("1"))
	require.NoError(t, err)
	b, err := s.Save(context.Background(), "a.jpg", "image/jpeg", []byte("2"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSupabaseStore_Save(t *testing.T) {
	var gotPath, gotAuth, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(`{"Key":"listing-images/x"}`))
	}))
	defer srv.Close()

	s := &SupabaseStore{BaseURL: srv.URL, SecretKey: "service-key", Bucket: "listing-images"}
	url, err := s.Save(context.Background(), "room.webp", "image/webp", []byte("webp"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotPath, "/storage/v1/object/listing-images/"))
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "image/webp", gotType)
	assert.Equal(t, "webp", gotBody)
	assert.True(t, strings.HasPrefix(url, srv.URL+"/storage/v1/object/public/listing-images/"))
	assert.True(t, strings.HasSuffix(url, ".webp"))
}

func TestSupabaseStore_Errors(t *testing.T) {
	_, err := (&SupabaseStore{SecretKey: "k"}).Save(context.Background(), "a.png", "image/png", nil)
	assert.ErrorContains(t, err, "SUPABASE_URL")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"Unauthorized"}`))
	}))
	defer srv.Close()
	s := &SupabaseStore{BaseURL: srv.URL, SecretKey: "anon", Bucket: "b"}
	_, err = s.Save(context.Background(), "a.png", "image/png", []byte("x"))
	assert.ErrorContains(t, err, "service_role")
}

func TestSupabaseStore_Delete(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
	}))
	defer srv.Close()

	s := &SupabaseStore{BaseURL: srv.URL, SecretKey: "k", Bucket: "b"}
	require.NoError(t, s.Delete(context.Background(), srv.URL+"/storage/v1/object/public/b/2026/10/x.png"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/storage/v1/object/b/2026/10/x.png", path)

	method = ""
	require.NoError(t, s.Delete(context.Background(), "/uploads/x.png"))
	assert.Empty(t, method)
}

func TestSupabaseStore_ConcurrentSavesShareStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Key":"b/x"}`))
	}))
	defer srv.Close()

	s := &SupabaseStore{BaseURL: srv.URL, SecretKey: "k", Bucket: "b"}
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Save(context.Background(), "a.png", "image/png", []byte("png"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Nil(t, s.Client)
}
