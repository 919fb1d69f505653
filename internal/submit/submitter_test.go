package submit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"roomrento-backend/internal/geo"
	"roomrento-backend/internal/images"
	"roomrento-backend/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func cozyRoom(t *testing.T, withImage bool) *wizard.Engine {
	e := wizard.NewEngine(wizard.RoomSchema)
	e.UpdateField("title", "Cozy Room")
	e.UpdateField("description", "Near metro")
	e.UpdateField("price", 5000)
	e.UpdateField("roomType", "Single")
	e.SetCoordinates(geo.Coordinates{Lat: 28.61, Lng: 77.20})
	if withImage {
		require.NoError(t, e.AddImage(images.Image{Name: "front.png", Data: pngBytes}))
	}
	return e
}

func TestSubmit_ValidRoomListing(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/rooms", r.URL.Path)
		assert.Equal(t, "Bearer owner-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(TraceHeader))

		require.NoError(t, r.ParseMultipartForm(10<<20))
		form := r.MultipartForm
		assert.Equal(t, []string{"Cozy Room"}, form.Value["title"])
		assert.Equal(t, []string{"Near metro"}, form.Value["description"])
		assert.Equal(t, []string{"5000"}, form.Value["price"])
		assert.Equal(t, []string{"Single"}, form.Value["roomType"])
		assert.Equal(t, []string{"28.61"}, form.Value[LatitudePart])
		assert.Equal(t, []string{"77.2"}, form.Value[LongitudePart])

		files := form.File[ImagesPart]
		require.Len(t, files, 1)
		assert.Equal(t, "front.png", files[0].Filename)
		assert.Equal(t, "image/png", files[0].Header.Get("Content-Type"))
		f, err := files[0].Open()
		require.NoError(t, err)
		data, _ := io.ReadAll(f)
		f.Close()
		assert.Equal(t, pngBytes, data)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status":"success","message":"Listing created"}`))
	}))
	defer srv.Close()

	navigated := make(chan string, 1)
	s := &Submitter{
		BaseURL:       srv.URL,
		Token:         "owner-token",
		Navigator:     NavigatorFunc(func(path string) { navigated <- path }),
		RedirectDelay: 20 * time.Millisecond,
	}

	status, err := s.Submit(context.Background(), cozyRoom(t, true))
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, status.Kind)
	assert.Equal(t, "Listing created successfully!", status.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.False(t, s.Submitting())

	select {
	case path := <-navigated:
		assert.Equal(t, DefaultRedirectPath, path)
	case <-time.After(2 * time.Second):
		t.Fatal("no redirect after success")
	}
}

func TestSubmit_MissingImageMakesNoRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	e := cozyRoom(t, false)
	assert.Equal(t, wizard.Errors{"images": "At least one image is required"}, e.ValidateStep(4))

	s := &Submitter{BaseURL: srv.URL}
	_, err := s.Submit(context.Background(), e)
	var verr *wizard.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Errors, "images")
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestSubmit_ServerErrorKeepsDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Duplicate listing"}`))
	}))
	defer srv.Close()

	navigated := int32(0)
	s := &Submitter{
		BaseURL:       srv.URL,
		Navigator:     NavigatorFunc(func(string) { atomic.AddInt32(&navigated, 1) }),
		RedirectDelay: time.Millisecond,
	}
	e := cozyRoom(t, true)

	status, err := s.Submit(context.Background(), e)
	var rej *RejectedError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, http.StatusConflict, rej.StatusCode)
	assert.Equal(t, StatusError, status.Kind)
	assert.Equal(t, "Duplicate listing", status.Message)
	assert.False(t, s.Submitting())

	v, _ := e.Field("title")
	assert.Equal(t, "Cozy Room", v)
	assert.Equal(t, 1, e.Snapshot().Images.Len())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&navigated))
}

func TestSubmit_NestedErrorAndFallbackMessages(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"status":"error","error":{"message":"Validation failed","statusCode":400}}`, "Validation failed"},
		{`not json`, fallbackMessage},
		{`{}`, fallbackMessage},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(tc.body))
		}))
		s := &Submitter{BaseURL: srv.URL}
		status, err := s.Submit(context.Background(), cozyRoom(t, true))
		assert.Error(t, err)
		assert.Equal(t, tc.want, status.Message)
		srv.Close()
	}
}

func TestSubmit_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	s := &Submitter{BaseURL: url}
	status, err := s.Submit(context.Background(), cozyRoom(t, true))
	assert.Error(t, err)
	assert.Equal(t, StatusError, status.Kind)
	assert.Equal(t, fallbackMessage, status.Message)
	assert.False(t, s.Submitting())
}

func TestSubmit_RejectsConcurrentSubmission(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := &Submitter{BaseURL: srv.URL}
	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), cozyRoom(t, true))
		done <- err
	}()

	require.Eventually(t, s.Submitting, time.Second, 5*time.Millisecond)
	_, err := s.Submit(context.Background(), cozyRoom(t, true))
	assert.ErrorIs(t, err, ErrInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Submitting())
}

func TestBuildPayload_ArrayFieldsAsJSON(t *testing.T) {
	e := wizard.NewEngine(wizard.HotelSchema)
	e.UpdateField("name", "Grand Stay")
	e.UpdateField("roomTypes", []string{"Deluxe", "Suite"})
	e.UpdateField("amenities", "pool")
	require.NoError(t, e.AddImage(images.Image{Name: "a.png", Data: pngBytes}))
	require.NoError(t, e.AddImage(images.Image{Name: "b.png", Data: pngBytes}))

	body, ct, err := BuildPayload(wizard.HotelSchema, e.Snapshot())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", ct)
	require.NoError(t, req.ParseMultipartForm(10<<20))

	var roomTypes []string
	require.NoError(t, json.Unmarshal([]byte(req.MultipartForm.Value["roomTypes"][0]), &roomTypes))
	assert.Equal(t, []string{"Deluxe", "Suite"}, roomTypes)
	assert.Equal(t, []string{`["pool"]`}, req.MultipartForm.Value["amenities"])
	assert.NotContains(t, req.MultipartForm.Value, LatitudePart)

	files := req.MultipartForm.File[ImagesPart]
	require.Len(t, files, 2)
	assert.Equal(t, "a.png", files[0].Filename)
	assert.Equal(t, "b.png", files[1].Filename)
}
