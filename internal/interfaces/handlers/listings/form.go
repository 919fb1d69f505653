package listings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"roomrento-backend/internal/geo"
	"roomrento-backend/internal/images"
	"roomrento-backend/internal/submit"
	"roomrento-backend/internal/wizard"
)

// draftFromForm rebuilds a wizard draft from a multipart listing submission.
// Array fields accept a JSON array or plain repeated values. Image problems
// come back as field errors.
func draftFromForm(schema *wizard.Schema, form *multipart.Form) (wizard.Draft, wizard.Errors, error) {
	d := wizard.NewDraft(schema)
	for k, vals := range form.Value {
		if k == submit.LatitudePart || k == submit.LongitudePart || len(vals) == 0 {
			continue
		}
		if schema.IsArrayField(k) {
			d.Fields[k] = parseList(vals)
			continue
		}
		d.Fields[k] = strings.TrimSpace(vals[0])
	}

	if c, ok := coordinates(form.Value); ok {
		d.Coordinates = &c
	}

	for _, fh := range form.File[submit.ImagesPart] {
		img, err := readImage(fh)
		if err != nil {
			return d, nil, err
		}
		if err := d.Images.Add(img); err != nil {
			return d, wizard.Errors{wizard.FieldImages: imageMessage(schema, fh.Filename, err)}, nil
		}
	}
	return d, nil, nil
}

func parseList(vals []string) []string {
	if len(vals) == 1 {
		raw := strings.TrimSpace(vals[0])
		var list []string
		if strings.HasPrefix(raw, "[") && json.Unmarshal([]byte(raw), &list) == nil {
			return list
		}
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func coordinates(values map[string][]string) (geo.Coordinates, bool) {
	lat, okLat := firstFloat(values[submit.LatitudePart])
	lng, okLng := firstFloat(values[submit.LongitudePart])
	if !okLat || !okLng {
		return geo.Coordinates{}, false
	}
	return geo.Coordinates{Lat: lat, Lng: lng}, true
}

func firstFloat(vals []string) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
	return f, err == nil
}

func readImage(fh *multipart.FileHeader) (images.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return images.Image{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, images.MaxUploadBytes+1))
	if err != nil {
		return images.Image{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return images.Image{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, nil
}

func imageMessage(schema *wizard.Schema, name string, err error) string {
	switch {
	case errors.Is(err, images.ErrLimitReached):
		return fmt.Sprintf("You can upload at most %d images", schema.ImageLimit)
	case errors.Is(err, images.ErrTooLarge):
		return fmt.Sprintf("%s is larger than %d MB", name, images.MaxUploadBytes>>20)
	case errors.Is(err, images.ErrUnsupportedType):
		return fmt.Sprintf("%s is not a supported image type", name)
	default:
		return fmt.Sprintf("%s is empty", name)
	}
}
