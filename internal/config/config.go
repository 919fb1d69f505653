package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseURL         string
	DBMaxOpenConns      int
	DBMaxIdleConns      int
	RedisURL            string
	JWTSecret           string
	TokenTTL            time.Duration
	UploadDir           string // local image store root; ignored when Supabase is configured
	PublicBaseURL       string // prefix for image URLs served from UploadDir
	SupabaseURL         string
	SupabaseSecretKey   string // service_role key
	SupabaseBucket      string
	FrontendURLEndsWith string
	DevPassword         string
	HealthAdminKey      string
	SendinblueAPIKey    string // SENDINBLUE_API_KEY for booking emails (Brevo)
	MailFrom            string
	FrontendURL         string // links in emails

	// Wizard client settings.
	GoogleMapsAPIKey   string
	NominatimUserAgent string
	GeolocationURL     string
	MapsScriptURL      string
	APIBaseURL         string
	APIToken           string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("PUBLIC_BASE_URL", "/uploads")
	viper.SetDefault("SUPABASE_BUCKET", "listing-images")
	viper.SetDefault("TOKEN_TTL", "72h")
	viper.SetDefault("NOMINATIM_USER_AGENT", "roomrento-wizard/1.0")
	viper.SetDefault("API_BASE_URL", "http://localhost:8080")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if env == "test" && viper.GetString("DATABASE_URL_TEST") != "" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}

	ttl := viper.GetDuration("TOKEN_TTL")
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}

	return &Config{
		Env:                 env,
		Port:                viper.GetString("PORT"),
		DatabaseURL:         dbURL,
		DBMaxOpenConns:      viper.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:      viper.GetInt("DB_MAX_IDLE_CONNS"),
		RedisURL:            viper.GetString("REDIS_URL"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		TokenTTL:            ttl,
		UploadDir:           viper.GetString("UPLOAD_DIR"),
		PublicBaseURL:       strings.TrimRight(viper.GetString("PUBLIC_BASE_URL"), "/"),
		SupabaseURL:         viper.GetString("SUPABASE_URL"),
		SupabaseSecretKey:   viper.GetString("SUPABASE_SECRET_KEY"),
		SupabaseBucket:      viper.GetString("SUPABASE_BUCKET"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		SendinblueAPIKey:    viper.GetString("SENDINBLUE_API_KEY"),
		MailFrom:            viper.GetString("MAIL_FROM"),
		FrontendURL:         strings.TrimRight(viper.GetString("FRONTEND_URL"), "/"),
		GoogleMapsAPIKey:    viper.GetString("GOOGLE_MAPS_API_KEY"),
		NominatimUserAgent:  viper.GetString("NOMINATIM_USER_AGENT"),
		GeolocationURL:      viper.GetString("GEOLOCATION_URL"),
		MapsScriptURL:       viper.GetString("MAPS_SCRIPT_URL"),
		APIBaseURL:          strings.TrimRight(viper.GetString("API_BASE_URL"), "/"),
		APIToken:            viper.GetString("API_TOKEN"),
	}, nil
}

// ErrJWTSecretRequired is returned by ValidateServer when JWT_SECRET is empty.
var ErrJWTSecretRequired = errors.New("config: JWT_SECRET is required")

// ValidateServer checks the settings the API cannot run without. The test
// environment may leave JWT_SECRET empty; tokens are then always rejected.
func (c *Config) ValidateServer() error {
	if strings.TrimSpace(c.JWTSecret) == "" && c.Env != "test" {
		return ErrJWTSecretRequired
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
