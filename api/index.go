package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"roomrento-backend/bootstrap"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog/log"
)

var (
	once     sync.Once
	fiberApp *fiber.App
	initErr  error
)

// Handler is the serverless entry point. The app is built on the first
// request; if that fails every request answers 503 until the next cold start.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		fiberApp, initErr = bootstrap.New()
		if initErr != nil {
			log.Error().Err(initErr).Msg("api: app create failed")
		}
	})
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "error",
			"error":  map[string]interface{}{"message": "Service unavailable", "statusCode": http.StatusServiceUnavailable},
		})
		return
	}
	r.RequestURI = r.URL.String()
	adaptor.FiberApp(fiberApp)(w, r)
}
