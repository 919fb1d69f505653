package images

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxUploadBytes is the per-image size limit.
const MaxUploadBytes = 5 << 20

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

var (
	ErrLimitReached    = errors.New("image limit reached")
	ErrUnsupportedType = errors.New("image type not supported")
	ErrTooLarge        = errors.New("image exceeds upload size limit")
	ErrEmptyImage      = errors.New("image is empty")
	ErrIndexOutOfRange = errors.New("image index out of range")
)

// Image is one selected file.
type Image struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Preview is what a client renders for a selected image.
type Preview struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	Primary     bool   `json:"primary"`
	DataURL     string `json:"data_url"`
}

// Selection is an ordered list of images; the first one is the primary image.
type Selection struct {
	Limit  int
	images []Image
}

// NewSelection returns an empty selection holding at most limit images (0 = no limit).
func NewSelection(limit int) *Selection {
	return &Selection{Limit: limit}
}

// Normalize fills and checks the content type. Declared types win over sniffing.
func Normalize(img Image) (Image, error) {
	if len(img.Data) == 0 {
		return img, ErrEmptyImage
	}
	if len(img.Data) > MaxUploadBytes {
		return img, ErrTooLarge
	}
	mimeType := img.ContentType
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(img.Data)
	}
	mimeType = strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if _, ok := allowedImageTypes[mimeType]; !ok {
		return img, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
	img.ContentType = mimeType
	if strings.TrimSpace(img.Name) == "" {
		img.Name = "image" + extensionFor(mimeType)
	}
	return img, nil
}

// Add appends img after validating it.
func (s *Selection) Add(img Image) error {
	if s.Limit > 0 && len(s.images) >= s.Limit {
		return fmt.Errorf("%w: at most %d images", ErrLimitReached, s.Limit)
	}
	norm, err := Normalize(img)
	if err != nil {
		return err
	}
	s.images = append(s.images, norm)
	return nil
}

// Remove drops the image at i.
func (s *Selection) Remove(i int) error {
	if i < 0 || i >= len(s.images) {
		return ErrIndexOutOfRange
	}
	s.images = append(s.images[:i], s.images[i+1:]...)
	return nil
}

// MakePrimary moves the image at i to the front.
func (s *Selection) MakePrimary(i int) error {
	return s.Move(i, 0)
}

// Move relocates the image at from to position to.
func (s *Selection) Move(from, to int) error {
	if from < 0 || from >= len(s.images) || to < 0 || to >= len(s.images) {
		return ErrIndexOutOfRange
	}
	img := s.images[from]
	s.images = append(s.images[:from], s.images[from+1:]...)
	s.images = append(s.images[:to], append([]Image{img}, s.images[to:]...)...)
	return nil
}

// Len returns the number of selected images.
func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.images)
}

// Primary returns the first image.
func (s *Selection) Primary() (Image, bool) {
	if s.Len() == 0 {
		return Image{}, false
	}
	return s.images[0], true
}

// All returns a copy of the selection in order.
func (s *Selection) All() []Image {
	if s == nil {
		return nil
	}
	return append([]Image(nil), s.images...)
}

// Clone returns an independent copy.
func (s *Selection) Clone() *Selection {
	if s == nil {
		return nil
	}
	return &Selection{Limit: s.Limit, images: s.All()}
}

// Previews renders every image as a data URL.
func (s *Selection) Previews() []Preview {
	out := make([]Preview, 0, s.Len())
	for i, img := range s.All() {
		out = append(out, Preview{
			Name:        img.Name,
			ContentType: img.ContentType,
			Size:        len(img.Data),
			Primary:     i == 0,
			DataURL:     "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
		})
	}
	return out
}

// LoadFile reads an image from disk.
func LoadFile(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, err
	}
	return Image{Name: filepath.Base(path), Data: data}, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
