package config

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/rtsyr/rtsyr_backend/internal/utils"
	"github.com/spf13/viper"
)

// ErrMissingJWTSecret is returned when either signing secret is unset.
var ErrMissingJWTSecret = errors.New("JWT_SECRET and JWT_REFRESH_SECRET must both be set")

// ErrSharedJWTSecret is returned when both signing secrets hold the same value.
var ErrSharedJWTSecret = errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ")

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	MigrationsPath string

	// Token issuer
	JWTSecret                  string
	JWTExpiryDuration          time.Duration
	JWTIssuer                  string
	RefreshTokenSecret         string
	RefreshTokenExpiryDuration time.Duration

	// Outbound mail. An empty SMTPHost disables delivery.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string

	FrontendURL        string
	DefaultPhoneRegion string

	// Rate limiting. RedisURL switches the limiter to a shared store.
	RedisURL       string
	LoginRateLimit string

	PosthogAPIKey   string
	PosthogEndpoint string

	// Seed administrator
	AdminEmail    string
	AdminPassword string
	AdminFullName string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("MIGRATIONS_PATH", "migrations")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_EXPIRES_IN", "15m")
	viper.SetDefault("JWT_REFRESH_SECRET", "")
	viper.SetDefault("JWT_REFRESH_EXPIRES_IN", "7d")
	viper.SetDefault("JWT_ISSUER", "rtsyr-backend")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("EMAIL_FROM", "")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("DEFAULT_PHONE_REGION", "SY")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("ADMIN_EMAIL", "")
	viper.SetDefault("ADMIN_PASSWORD", "")
	viper.SetDefault("ADMIN_FULL_NAME", "Platform Admin")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	cfg.RefreshTokenSecret = viper.GetString("JWT_REFRESH_SECRET")
	if cfg.JWTSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.JWTSecret == cfg.RefreshTokenSecret {
		return nil, ErrSharedJWTSecret
	}

	// Expiry strings use the "<n>{s,m,h,d}" grammar and fall back to 7 days.
	cfg.JWTExpiryDuration = utils.ParseExpiry(viper.GetString("JWT_EXPIRES_IN"))
	cfg.RefreshTokenExpiryDuration = utils.ParseExpiry(viper.GetString("JWT_REFRESH_EXPIRES_IN"))
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetInt("SMTP_PORT")
	cfg.SMTPUser = viper.GetString("SMTP_USER")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	cfg.EmailFrom = viper.GetString("EMAIL_FROM")
	if cfg.EmailFrom == "" {
		cfg.EmailFrom = cfg.SMTPUser
	}
	if cfg.SMTPHost == "" {
		log.Println("Warning: SMTP_HOST not set. Verification codes will only be logged.")
	}

	cfg.FrontendURL = viper.GetString("FRONTEND_URL")
	cfg.DefaultPhoneRegion = viper.GetString("DEFAULT_PHONE_REGION")

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	cfg.AdminEmail = viper.GetString("ADMIN_EMAIL")
	cfg.AdminPassword = viper.GetString("ADMIN_PASSWORD")
	cfg.AdminFullName = viper.GetString("ADMIN_FULL_NAME")

	return cfg, nil
}
