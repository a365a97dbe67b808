package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"
)

// Config holds application configuration.
type Config struct {
	Port               string
	IsProduction       bool
	LogLevel           string
	CORSAllowedOrigins []string

	StorageDriver  string
	DatabaseURL    string
	EnableDBCheck  bool
	MigrationsPath string

	JWTSecret           string
	JWTExpiryDuration   time.Duration
	JWTIssuer           string
	SessionCookieName   string
	SessionCookieDomain string
	SessionCookieSecure bool

	LoginRateLimit string // ulule/limiter formatted rate, e.g. "5-M"

	PaymentKeySecret     string
	PaymentWebhookSecret string
	TrialDays            int

	PrintTokenTTL  time.Duration
	PrintCacheSize int

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	PosthogAPIKey string
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "billistry")
	viper.SetDefault("SESSION_COOKIE_NAME", "billistry_session")
	viper.SetDefault("SESSION_COOKIE_DOMAIN", "")
	viper.SetDefault("SESSION_COOKIE_SECURE", true)
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("PAYMENT_KEY_SECRET", "")
	viper.SetDefault("PAYMENT_WEBHOOK_SECRET", "")
	viper.SetDefault("TRIAL_DAYS", 14)
	viper.SetDefault("PRINT_TOKEN_TTL", "5m")
	viper.SetDefault("PRINT_CACHE_SIZE", 1024)
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")

	// Environment variables override .env values, which override the defaults above.
	viper.AutomaticEnv()

	cfg := &Config{
		Port:                 viper.GetString("PORT"),
		IsProduction:         viper.GetBool("IS_PRODUCTION"),
		LogLevel:             viper.GetString("LOG_LEVEL"),
		CORSAllowedOrigins:   splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		StorageDriver:        strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		DatabaseURL:          viper.GetString("PGSQL_URL"),
		EnableDBCheck:        viper.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:       viper.GetString("MIGRATIONS_PATH"),
		JWTSecret:            viper.GetString("JWT_SECRET"),
		JWTExpiryDuration:    durationOr("JWT_EXPIRY_DURATION", 24*time.Hour),
		JWTIssuer:            viper.GetString("JWT_ISSUER"),
		SessionCookieName:    viper.GetString("SESSION_COOKIE_NAME"),
		SessionCookieDomain:  viper.GetString("SESSION_COOKIE_DOMAIN"),
		SessionCookieSecure:  viper.GetBool("SESSION_COOKIE_SECURE"),
		LoginRateLimit:       viper.GetString("LOGIN_RATE_LIMIT"),
		PaymentKeySecret:     viper.GetString("PAYMENT_KEY_SECRET"),
		PaymentWebhookSecret: viper.GetString("PAYMENT_WEBHOOK_SECRET"),
		TrialDays:            viper.GetInt("TRIAL_DAYS"),
		PrintTokenTTL:        durationOr("PRINT_TOKEN_TTL", 5*time.Minute),
		PrintCacheSize:       viper.GetInt("PRINT_CACHE_SIZE"),
		GoogleClientID:       viper.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:   viper.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:    viper.GetString("GOOGLE_REDIRECT_URL"),
		FrontendBaseURL:      strings.TrimRight(viper.GetString("FRONTEND_BASE_URL"), "/"),
		PosthogAPIKey:        viper.GetString("POSTHOG_API_KEY"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StorageDriverMemory:
		log.Println("Warning: STORAGE_DRIVER=memory, data is not persisted.")
	default:
		log.Printf("Warning: Unknown STORAGE_DRIVER '%s'. Defaulting to %s.\n", cfg.StorageDriver, StorageDriverPostgres)
		cfg.StorageDriver = StorageDriverPostgres
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "billistry"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}
	if cfg.SessionCookieName == "" {
		cfg.SessionCookieName = "billistry_session"
	}
	if cfg.LoginRateLimit == "" {
		cfg.LoginRateLimit = "5-M"
	}
	if cfg.TrialDays <= 0 {
		log.Printf("Warning: Invalid TRIAL_DAYS (%d). Defaulting to 14.\n", cfg.TrialDays)
		cfg.TrialDays = 14
	}
	if cfg.PrintCacheSize <= 0 {
		cfg.PrintCacheSize = 1024
	}

	if cfg.PaymentKeySecret == "" {
		log.Println("Warning: PAYMENT_KEY_SECRET not set. Payment verification will reject every signature.")
	}
	if cfg.PaymentWebhookSecret == "" {
		log.Println("Warning: PAYMENT_WEBHOOK_SECRET not set. Webhooks will be rejected.")
	}

	// Log warnings for missing critical OAuth ENV variables
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}
	if cfg.GoogleClientSecret == "" {
		log.Println("Warning: GOOGLE_CLIENT_SECRET not set. Google OAuth will not function.")
	}
	if cfg.GoogleRedirectURL == "" {
		log.Println("Warning: GOOGLE_REDIRECT_URL not set. Google OAuth will not function.")
	}

	return cfg, nil
}
