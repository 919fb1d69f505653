package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	authsvc "roomrento-backend/internal/application/auth"
	booksvc "roomrento-backend/internal/application/bookings"
	emailsvc "roomrento-backend/internal/application/emails"
	filtersvc "roomrento-backend/internal/application/filters"
	listsvc "roomrento-backend/internal/application/listings"
	notifsvc "roomrento-backend/internal/application/notifications"
	uploadsvc "roomrento-backend/internal/application/uploads"
	"roomrento-backend/internal/config"
	"roomrento-backend/internal/infrastructure/database"
	authhandler "roomrento-backend/internal/interfaces/handlers/auth"
	bookhandler "roomrento-backend/internal/interfaces/handlers/bookings"
	filterhandler "roomrento-backend/internal/interfaces/handlers/filters"
	healthhandler "roomrento-backend/internal/interfaces/handlers/health"
	listhandler "roomrento-backend/internal/interfaces/handlers/listings"
	notifhandler "roomrento-backend/internal/interfaces/handlers/notifications"
	"roomrento-backend/internal/middleware"
	"roomrento-backend/internal/pkg/constants"
	"roomrento-backend/internal/wizard"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// BodyLimit fits the largest listing: ten images at the per-image limit plus form fields.
const BodyLimit = 64 << 20

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Deps are the collaborators NewApp wires into routes. DB, Rdb and Emails are optional:
// without DB only health routes are mounted, without Rdb filters are not remembered.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Rdb    *redis.Client
	Images uploadsvc.Store
	Emails emailsvc.Sender
}

// NewApp builds the Fiber app and mounts every route.
func NewApp(d Deps) *fiber.App {
	cfg := d.Config
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		BodyLimit:               BodyLimit,
	})

	app.Use(recover.New())
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: []string{cfg.FrontendURL},
		AllowedSuffix:  cfg.FrontendURLEndsWith,
		DevPassword:    cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	app.Use(middleware.HealthMarker(d.Rdb))

	tokens := &authsvc.Tokens{Secret: cfg.JWTSecret, TTL: cfg.TokenTTL}
	app.Use(middleware.Authenticate(tokens))

	hh := &healthhandler.Handlers{Rdb: d.Rdb, HealthAdminKey: cfg.HealthAdminKey}
	if d.DB != nil {
		hh.DB = &gormDBPinger{db: d.DB}
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	if _, ok := d.Images.(*uploadsvc.DiskStore); ok && strings.HasPrefix(cfg.PublicBaseURL, "/") {
		app.Static(cfg.PublicBaseURL, cfg.UploadDir)
	}

	if d.DB == nil {
		log.Warn().Msg("router: no database configured, only health routes are mounted")
		return app
	}

	// Auth
	ah := &authhandler.Handlers{Service: &authsvc.Service{DB: d.DB}, Tokens: tokens}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/register", ah.Register)
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", middleware.RequireAuth(), ah.Me)
	authGroup.Patch("/me", middleware.RequireAuth(), ah.UpdateMe)

	// Listings
	var filterStore *filtersvc.Store
	if d.Rdb != nil {
		filterStore = &filtersvc.Store{Rdb: d.Rdb}
	}
	lh := &listhandler.Handlers{
		Service: &listsvc.Service{DB: d.DB, Images: d.Images},
		Filters: filterStore,
	}
	for _, typ := range wizard.Types() {
		schema, _ := wizard.Lookup(typ)
		app.Post(schema.Endpoint, middleware.RequireAuth(), middleware.AuthorizePermission(constants.CreateListing), lh.Create(typ))
	}
	lg := app.Group("/api/v1/listings")
	lg.Get("/search", lh.Search)
	lg.Get("/mine", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ManageListing), lh.Mine)
	lg.Get("/:id", lh.Get)
	lg.Patch("/:id/availability", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ManageListing), lh.SetAvailability)
	lg.Delete("/:id", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ManageListing), lh.Delete)

	// Remembered filters
	if filterStore != nil {
		fh := &filterhandler.Handlers{Store: filterStore}
		fg := app.Group("/api/v1/filters", middleware.RequireAuth())
		fg.Get("/last", fh.Last)
		fg.Put("/last", fh.Save)
		fg.Delete("/last", fh.Clear)
	}

	// Bookings
	bh := &bookhandler.Handlers{Service: &booksvc.Service{DB: d.DB, Emails: d.Emails}}
	bg := app.Group("/api/v1/bookings", middleware.RequireAuth())
	bg.Post("/", middleware.AuthorizePermission(constants.RequestBooking), bh.Request)
	bg.Get("/incoming", middleware.AuthorizePermission(constants.DecideBooking), bh.Incoming)
	bg.Get("/mine", middleware.AuthorizePermission(constants.RequestBooking), bh.Mine)
	bg.Patch("/:id", middleware.AuthorizePermission(constants.DecideBooking), bh.Decide)

	// Notifications
	nh := &notifhandler.Handlers{Service: &notifsvc.Service{DB: d.DB}}
	ng := app.Group("/api/v1/notifications", middleware.RequireAuth())
	ng.Get("/", nh.List)
	ng.Patch("/:id/read", nh.MarkRead)

	return app
}

// ImageStore picks Supabase Storage when configured and the local disk otherwise.
func ImageStore(cfg *config.Config) uploadsvc.Store {
	if cfg.SupabaseURL != "" && cfg.SupabaseSecretKey != "" {
		return &uploadsvc.SupabaseStore{
			BaseURL:   cfg.SupabaseURL,
			SecretKey: cfg.SupabaseSecretKey,
			Bucket:    cfg.SupabaseBucket,
			Client:    &http.Client{Timeout: 30 * time.Second},
		}
	}
	return &uploadsvc.DiskStore{Dir: cfg.UploadDir, PublicBaseURL: cfg.PublicBaseURL}
}

// CreateApp connects Postgres and Redis from cfg and builds the app.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	if err := cfg.ValidateServer(); err != nil {
		return nil, nil, nil, err
	}
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		pool := database.Pool{MaxOpenConns: cfg.DBMaxOpenConns, MaxIdleConns: cfg.DBMaxIdleConns, ConnMaxLifetime: 30 * time.Minute}
		if db, err = database.Open(cfg.DatabaseURL, pool); err != nil {
			return nil, nil, nil, err
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Msg("router: redis ping failed")
		}
	}

	var sender emailsvc.Sender
	if cfg.SendinblueAPIKey != "" {
		sender = &emailsvc.BrevoClient{APIKey: cfg.SendinblueAPIKey, MailFrom: cfg.MailFrom, FrontendURL: cfg.FrontendURL}
	}

	app := NewApp(Deps{Config: cfg, DB: db, Rdb: rdb, Images: ImageStore(cfg), Emails: sender})
	return app, db, rdb, nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
