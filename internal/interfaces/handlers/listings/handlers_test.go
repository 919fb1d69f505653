package listings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"roomrento-backend/internal/application/filters"
	listsvc "roomrento-backend/internal/application/listings"
	"roomrento-backend/internal/application/uploads"
	"roomrento-backend/internal/domain"
	"roomrento-backend/internal/geo"
	"roomrento-backend/internal/images"
	"roomrento-backend/internal/pkg/constants"
	"roomrento-backend/internal/session"
	"roomrento-backend/internal/submit"
	"roomrento-backend/internal/wizard"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type env struct {
	app   *fiber.App
	db    *gorm.DB
	rdb   *redis.Client
	owner uuid.UUID
}

// setupListingsTest mounts the listing routes behind a header-based fake auth:
// X-User carries the caller's id, X-Role the role.
func setupListingsTest(t *testing.T) *env {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Listing{}, &domain.Notification{}))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	h := &Handlers{
		Service: &listsvc.Service{DB: db, Images: &uploads.DiskStore{Dir: t.TempDir(), PublicBaseURL: "/uploads"}},
		Filters: &filters.Store{Rdb: rdb},
	}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if id, err := uuid.Parse(c.Get("X-User")); err == nil {
			session.Attach(c, session.Context{UserID: id, Role: c.Get("X-Role", constants.Owner)})
		}
		return c.Next()
	})
	app.Post("/api/v1/rooms", h.Create(wizard.TypeRoom))
	app.Post("/api/v1/hotels", h.Create(wizard.TypeHotel))
	app.Get("/api/v1/listings/search", h.Search)
	app.Get("/api/v1/listings/mine", h.Mine)
	app.Get("/api/v1/listings/:id", h.Get)
	app.Patch("/api/v1/listings/:id/availability", h.SetAvailability)
	app.Delete("/api/v1/listings/:id", h.Delete)
	return &env{app: app, db: db, rdb: rdb, owner: uuid.New()}
}

func roomEngine(t *testing.T, title string, images int) *wizard.Engine {
	e := wizard.NewEngine(wizard.RoomSchema)
	e.UpdateField("title", title)
	e.UpdateField("description", "Near metro")
	e.UpdateField("roomType", "Single")
	e.UpdateField(wizard.FieldPrice, 5000)
	e.UpdateField(wizard.FieldLocation, "MG Road")
	e.UpdateField(wizard.FieldCity, "Pune")
	e.UpdateField(wizard.FieldContact, "9876543210")
	e.UpdateField(wizard.FieldEmail, "owner@example.com")
	e.UpdateField(wizard.FieldAmenities, []string{"wifi", "parking"})
	e.SetCoordinates(geo.Coordinates{Lat: 18.52, Lng: 73.85})
	for i := 0; i < images; i++ {
		require.NoError(t, e.AddImage(imageNamed(fmt.Sprintf("img%d.png", i))))
	}
	return e
}

func imageNamed(name string) images.Image {
	return images.Image{Name: name, Data: pngBytes}
}

func (e *env) call(t *testing.T, method, path string, body io.Reader, contentType string, user uuid.UUID) (int, map[string]interface{}) {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if user != uuid.Nil {
		req.Header.Set("X-User", user.String())
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (e *env) createRoom(t *testing.T, eng *wizard.Engine) (int, map[string]interface{}) {
	body, ct, err := submit.BuildPayload(wizard.RoomSchema, eng.Snapshot())
	require.NoError(t, err)
	return e.call(t, "POST", "/api/v1/rooms", body, ct, e.owner)
}

func errorOf(body map[string]interface{}) map[string]interface{} {
	m, _ := body["error"].(map[string]interface{})
	return m
}

func TestCreate_RoomFromWizardPayload(t *testing.T) {
	e := setupListingsTest(t)
	code, body := e.createRoom(t, roomEngine(t, "Cozy Room", 2))
	require.Equal(t, fiber.StatusCreated, code, body)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "room", data["type"])
	assert.Equal(t, "Cozy Room", data["title"])
	assert.Equal(t, 5000.0, data["price"])
	assert.Equal(t, 18.52, data["latitude"])
	assert.Equal(t, []interface{}{"wifi", "parking"}, data["amenities"])
	assert.Len(t, data["images"], 2)

	var count int64
	e.db.Model(&domain.Notification{}).Where("user_id = ?", e.owner).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreate_DuplicateIs409(t *testing.T) {
	e := setupListingsTest(t)
	code, _ := e.createRoom(t, roomEngine(t, "Cozy Room", 1))
	require.Equal(t, fiber.StatusCreated, code)

	code, body := e.createRoom(t, roomEngine(t, "cozy room", 1))
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "Duplicate listing", errorOf(body)["message"])
}

func TestCreate_ValidationErrorsInDetails(t *testing.T) {
	e := setupListingsTest(t)
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("title", "Cozy Room"))
	require.NoError(t, w.WriteField("amenities", "wifi"))
	require.NoError(t, w.Close())

	code, resp := e.call(t, "POST", "/api/v1/rooms", body, w.FormDataContentType(), e.owner)
	assert.Equal(t, fiber.StatusBadRequest, code)
	fields := errorOf(resp)["details"].(map[string]interface{})["fields"].(map[string]interface{})
	assert.Equal(t, "Description is required", fields["description"])
	assert.Equal(t, "At least one image is required", fields["images"])
	assert.Equal(t, "Please select the location on the map", fields["coordinates"])
	assert.NotContains(t, fields, "amenities")
	assert.NotContains(t, fields, "title")
}

func TestCreate_TooManyImages(t *testing.T) {
	e := setupListingsTest(t)
	eng := roomEngine(t, "Cozy Room", 0)
	d := eng.Snapshot()
	unlimited := images.NewSelection(0)
	for i := 0; i < wizard.RoomSchema.ImageLimit+1; i++ {
		require.NoError(t, unlimited.Add(imageNamed(fmt.Sprintf("img%d.png", i))))
	}
	d.Images = unlimited

	body, ct, err := submit.BuildPayload(wizard.RoomSchema, d)
	require.NoError(t, err)
	code, resp := e.call(t, "POST", "/api/v1/rooms", body, ct, e.owner)
	assert.Equal(t, fiber.StatusBadRequest, code)
	fields := errorOf(resp)["details"].(map[string]interface{})["fields"].(map[string]interface{})
	assert.Equal(t, "You can upload at most 5 images", fields["images"])
}

func TestCreate_HotelWithoutCoordinates(t *testing.T) {
	e := setupListingsTest(t)
	eng := wizard.NewEngine(wizard.HotelSchema)
	for k, v := range map[string]interface{}{
		"name": "Grand Stay", "description": "Lake view", "category": "Boutique",
		wizard.FieldPrice: "3500", wizard.FieldLocation: "Lake Road", wizard.FieldCity: "Udaipur",
		wizard.FieldContact: "9876543210", wizard.FieldEmail: "hotel@example.com",
		"roomTypes": []string{"Deluxe"}, wizard.FieldAmenities: []string{"pool"},
	} {
		eng.UpdateField(k, v)
	}
	require.NoError(t, eng.AddImage(imageNamed("lobby.png")))

	body, ct, err := submit.BuildPayload(wizard.HotelSchema, eng.Snapshot())
	require.NoError(t, err)
	code, resp := e.call(t, "POST", "/api/v1/hotels", body, ct, e.owner)
	require.Equal(t, fiber.StatusCreated, code, resp)
	data := resp["data"].(map[string]interface{})
	assert.Nil(t, data["latitude"])
	assert.Equal(t, "Grand Stay", data["title"])
}

func TestCreate_RequiresSession(t *testing.T) {
	e := setupListingsTest(t)
	body, ct, err := submit.BuildPayload(wizard.RoomSchema, roomEngine(t, "Cozy Room", 1).Snapshot())
	require.NoError(t, err)
	code, _ := e.call(t, "POST", "/api/v1/rooms", body, ct, uuid.Nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestOwnerLifecycle(t *testing.T) {
	e := setupListingsTest(t)
	_, created := e.createRoom(t, roomEngine(t, "Cozy Room", 1))
	id := created["data"].(map[string]interface{})["id"].(string)

	code, mine := e.call(t, "GET", "/api/v1/listings/mine", nil, "", e.owner)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, mine["data"], 1)

	code, _ = e.call(t, "PATCH", "/api/v1/listings/"+id+"/availability", bytes.NewReader([]byte(`{"available":false}`)), "application/json", uuid.New())
	assert.Equal(t, fiber.StatusForbidden, code)

	code, resp := e.call(t, "PATCH", "/api/v1/listings/"+id+"/availability", bytes.NewReader([]byte(`{"available":false}`)), "application/json", e.owner)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, false, resp["data"].(map[string]interface{})["available"])

	code, search := e.call(t, "GET", "/api/v1/listings/search?city=pune", nil, "", uuid.Nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, search["data"], 0)

	code, _ = e.call(t, "DELETE", "/api/v1/listings/"+id, nil, "", e.owner)
	require.Equal(t, fiber.StatusOK, code)
	code, _ = e.call(t, "GET", "/api/v1/listings/"+id, nil, "", uuid.Nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = e.call(t, "GET", "/api/v1/listings/not-a-uuid", nil, "", uuid.Nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestSearch_RememberAndReuseFilter(t *testing.T) {
	e := setupListingsTest(t)
	_, _ = e.createRoom(t, roomEngine(t, "Cozy Room", 1))
	tenant := uuid.New()

	code, resp := e.call(t, "GET", "/api/v1/listings/search?type=room&maxPrice=6000&amenity=WIFI&remember=true", nil, "", tenant)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, resp["data"], 1)

	code, resp = e.call(t, "GET", "/api/v1/listings/search?last=true", nil, "", tenant)
	require.Equal(t, fiber.StatusOK, code)
	filter := resp["metadata"].(map[string]interface{})["filter"].(map[string]interface{})
	assert.Equal(t, "room", filter["type"])
	assert.Equal(t, 6000.0, filter["maxPrice"])

	code, resp = e.call(t, "GET", "/api/v1/listings/search?maxPrice=100", nil, "", uuid.Nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, resp["data"], 0)

	code, _ = e.call(t, "GET", "/api/v1/listings/search?type=castle", nil, "", uuid.Nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = e.call(t, "GET", "/api/v1/listings/search?minPrice=-5", nil, "", uuid.Nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}
