package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"roomrento-backend/internal/config"
	"roomrento-backend/internal/geo"
	"roomrento-backend/internal/submit"
	"roomrento-backend/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func writeAnswers(t *testing.T, a Answers) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "front.png"), pngBytes, 0o644))
	b, err := json.Marshal(a)
	require.NoError(t, err)
	path := filepath.Join(dir, "answers.json")
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

func roomAnswers() Answers {
	return Answers{
		Fields: map[string]interface{}{
			"title": "Cozy Room", "description": "Near metro", "roomType": "Single",
			"price": 5000, "contactNumber": "9876543210", "email": "owner@example.com",
			"amenities": []string{"wifi"},
		},
		Images: []string{"front.png"},
	}
}

func TestRun_PicksLocationAndSubmits(t *testing.T) {
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"display_name":"Janpath, New Delhi","address":{"city":"New Delhi","state":"Delhi","postcode":"110001"}}`))
	}))
	defer nominatim.Close()

	var form map[string][]string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		form = r.MultipartForm.Value
		assert.Len(t, r.MultipartForm.File[submit.ImagesPart], 1)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer api.Close()

	adapter := &geo.Adapter{Geocoder: &geo.NominatimGeocoder{BaseURL: nominatim.URL, UserAgent: "test"}}
	opts := options{
		Type:        wizard.TypeRoom,
		AnswersPath: writeAnswers(t, roomAnswers()),
		Pick:        &geo.Coordinates{Lat: 28.61, Lng: 77.2},
		BaseURL:     api.URL,
		Token:       "tok",
	}
	start := time.Now()
	status, err := run(context.Background(), &config.Config{}, opts, adapter)
	require.NoError(t, err)
	assert.Equal(t, submit.StatusSuccess, status.Kind)
	// The success message stays up for the standard delay before the redirect.
	assert.GreaterOrEqual(t, time.Since(start), submit.DefaultRedirectDelay)
	assert.Equal(t, []string{"Janpath, New Delhi"}, form["location"])
	assert.Equal(t, []string{"New Delhi"}, form["city"])
	assert.Equal(t, []string{"28.61"}, form["latitude"])
}

func TestRun_StopsOnInvalidStep(t *testing.T) {
	a := roomAnswers()
	delete(a.Fields, "title")
	opts := options{Type: wizard.TypeRoom, AnswersPath: writeAnswers(t, a), BaseURL: "http://127.0.0.1:1"}

	_, err := run(context.Background(), &config.Config{}, opts, &geo.Adapter{})
	var verr *wizard.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Title is required", verr.Errors["title"])
}

func TestRun_UnknownType(t *testing.T) {
	_, err := run(context.Background(), &config.Config{}, options{Type: "castle", AnswersPath: "x.json"}, &geo.Adapter{})
	assert.Error(t, err)
}
