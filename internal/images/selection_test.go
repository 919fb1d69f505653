package images

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal PNG signature is enough for http.DetectContentType.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func named(name string) Image {
	return Image{Name: name, Data: pngBytes}
}

func names(s *Selection) []string {
	var out []string
	for _, img := range s.All() {
		out = append(out, img.Name)
	}
	return out
}

func TestAdd_SniffsContentType(t *testing.T) {
	s := NewSelection(3)
	require.NoError(t, s.Add(named("a.png")))
	img, ok := s.Primary()
	require.True(t, ok)
	assert.Equal(t, "image/png", img.ContentType)
}

func TestAdd_RejectsUnsupportedAndEmpty(t *testing.T) {
	s := NewSelection(3)
	assert.ErrorIs(t, s.Add(Image{Name: "doc.txt", Data: []byte("hello world")}), ErrUnsupportedType)
	assert.ErrorIs(t, s.Add(Image{Name: "empty.png"}), ErrEmptyImage)
	assert.ErrorIs(t, s.Add(Image{Name: "big.png", Data: make([]byte, MaxUploadBytes+1)}), ErrTooLarge)
	assert.Equal(t, 0, s.Len())
}

func TestAdd_EnforcesLimit(t *testing.T) {
	s := NewSelection(2)
	require.NoError(t, s.Add(named("1.png")))
	require.NoError(t, s.Add(named("2.png")))
	assert.ErrorIs(t, s.Add(named("3.png")), ErrLimitReached)
	assert.Equal(t, 2, s.Len())
}

func TestReorder(t *testing.T) {
	s := NewSelection(0)
	for _, n := range []string{"a", "b", "c", "d"} {
		require.NoError(t, s.Add(named(n)))
	}
	require.NoError(t, s.MakePrimary(2))
	assert.Equal(t, []string{"c", "a", "b", "d"}, names(s))

	require.NoError(t, s.Move(0, 3))
	assert.Equal(t, []string{"a", "b", "d", "c"}, names(s))

	require.NoError(t, s.Remove(1))
	assert.Equal(t, []string{"a", "d", "c"}, names(s))

	assert.ErrorIs(t, s.Remove(5), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Move(-1, 0), ErrIndexOutOfRange)
}

func TestPreviews(t *testing.T) {
	s := NewSelection(0)
	require.NoError(t, s.Add(named("a.png")))
	require.NoError(t, s.Add(Image{Data: pngBytes}))

	previews := s.Previews()
	require.Len(t, previews, 2)
	assert.True(t, previews[0].Primary)
	assert.False(t, previews[1].Primary)
	assert.Equal(t, "image.png", previews[1].Name)
	assert.True(t, strings.HasPrefix(previews[0].DataURL, "data:image/png;base64,"))
	assert.Equal(t, len(pngBytes), previews[0].Size)
}

func TestClone_IsIndependent(t *testing.T) {
	s := NewSelection(0)
	require.NoError(t, s.Add(named("a")))
	c := s.Clone()
	require.NoError(t, c.Add(named("b")))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, c.Len())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.png")
	require.NoError(t, os.WriteFile(path, pngBytes, 0o600))
	img, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "room.png", img.Name)
	assert.Equal(t, pngBytes, img.Data)
}
