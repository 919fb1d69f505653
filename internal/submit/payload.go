package submit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strconv"
	"strings"

	"roomrento-backend/internal/wizard"
)

// ImagesPart is the multipart field name shared by every image part.
const ImagesPart = "images"

// Coordinate part names.
const (
	LatitudePart  = "latitude"
	LongitudePart = "longitude"
)

// BuildPayload encodes a draft as multipart/form-data: scalar fields as text
// parts, array fields as JSON text parts, then one binary part per image in
// selection order.
func BuildPayload(schema *wizard.Schema, d wizard.Draft) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	keys := make([]string, 0, len(d.Fields))
	for k := range d.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := d.Fields[k]
		if v == nil {
			continue
		}
		text, err := encodeValue(schema, k, v)
		if err != nil {
			return nil, "", fmt.Errorf("encode field %s: %w", k, err)
		}
		if err := w.WriteField(k, text); err != nil {
			return nil, "", err
		}
	}

	if d.Coordinates != nil {
		if err := w.WriteField(LatitudePart, strconv.FormatFloat(d.Coordinates.Lat, 'f', -1, 64)); err != nil {
			return nil, "", err
		}
		if err := w.WriteField(LongitudePart, strconv.FormatFloat(d.Coordinates.Lng, 'f', -1, 64)); err != nil {
			return nil, "", err
		}
	}

	for _, img := range d.Images.All() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, ImagesPart, escapeQuotes(img.Name)))
		h.Set("Content-Type", img.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

func encodeValue(schema *wizard.Schema, key string, v interface{}) (string, error) {
	switch x := v.(type) {
	case []string, []interface{}:
		b, err := json.Marshal(x)
		return string(b), err
	}
	if schema.IsArrayField(key) {
		list := []string{}
		if s := wizard.AsString(v); s != "" {
			list = append(list, s)
		}
		b, err := json.Marshal(list)
		return string(b), err
	}
	if s := wizard.AsString(v); s != "" || v == "" {
		return s, nil
	}
	b, err := json.Marshal(v)
	return string(b), err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
