package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, h fiber.Handler) (int, map[string]interface{}) {
	t.Helper()
	app := fiber.New()
	app.Get("/", h)
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestSuccessCreated(t *testing.T) {
	code, body := call(t, func(c *fiber.Ctx) error {
		return SuccessCreated(c, "Listing created", fiber.Map{"id": "x"}, nil)
	})
	assert.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Listing created", body["message"])
	assert.Equal(t, map[string]interface{}{}, body["metadata"])
}

func TestValidationFailed(t *testing.T) {
	code, body := call(t, func(c *fiber.Ctx) error {
		return ValidationFailed(c, map[string]string{"title": "Title is required"})
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "error", body["status"])
	e := body["error"].(map[string]interface{})
	assert.Equal(t, "Validation failed", e["message"])
	assert.Equal(t, float64(400), e["statusCode"])
	fields := e["details"].(map[string]interface{})["fields"].(map[string]interface{})
	assert.Equal(t, "Title is required", fields["title"])
}

func TestConflict(t *testing.T) {
	code, body := call(t, func(c *fiber.Ctx) error { return Conflict(c, "Duplicate listing") })
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "Duplicate listing", body["error"].(map[string]interface{})["message"])
}
