package bootstrap

import (
	"roomrento-backend/internal/config"
	"roomrento-backend/internal/infrastructure/database"
	"roomrento-backend/internal/interfaces/router"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// New creates the Fiber app for serverless deployments (the api handler imports
// this package, not internal). Tables are migrated on cold start.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	app, db, _, err := router.CreateApp(cfg)
	if err != nil {
		return nil, err
	}
	if db != nil {
		if err := database.AutoMigrate(db); err != nil {
			log.Error().Err(err).Msg("bootstrap: migrate failed")
			return nil, err
		}
	}
	return app, nil
}
