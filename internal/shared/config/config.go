package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	DatabaseURL     string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	JWTSecret   string
	JWTTTL      time.Duration
	BcryptCost  int
	AdminEmails []string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string

	LencoAPIKey        string
	LencoBaseURL       string
	LencoWebhookSecret string
	PaymentCurrency    string
	FrontendURL        string
	PaymentQueueURL    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel  string
	LogFormat string
}

var defaults = map[string]any{
	"PORT":               "8080",
	"ENV":                "dev",
	"CORS_ALLOW_ORIGINS": "http://localhost:5173,http://localhost:3000",
	"OBJECT_STORE":       "local",
	"LOCAL_STORE_DIR":    "./data",
	"JWT_TTL":            "168h",
	"BCRYPT_COST":        10,
	"LENCO_BASE_URL":     "https://api.lenco.co/v2",
	"PAYMENT_CURRENCY":   "USD",
	"FRONTEND_URL":       "http://localhost:3000",
	"REDIS_DB":           0,
	"LOG_LEVEL":          "info",
	"LOG_FORMAT":         "json",
}

// Load reads configuration from .env files and environment variables.
func Load() Config {
	// Best-effort load of local env files for dev convenience. Existing
	// environment variables win.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	for key, val := range defaults {
		if !v.IsSet(key) {
			v.SetDefault(key, val)
		}
	}

	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	ttl := v.GetDuration("JWT_TTL")
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	return Config{
		Port:               v.GetString("PORT"),
		CORSAllowOrigin:    splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		Env:                env,
		DatabaseURL:        dbURL,
		ObjectStoreType:    normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:      v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:          v.GetString("AWS_REGION"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3Prefix:           v.GetString("S3_PREFIX"),
		SSEKMSKeyID:        v.GetString("SSE_KMS_KEY_ID"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTTTL:             ttl,
		BcryptCost:         v.GetInt("BCRYPT_COST"),
		AdminEmails:        lowerAll(splitAndTrim(v.GetString("ADMIN_EMAILS"))),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		UIRedirectURL:      v.GetString("UI_REDIRECT_URL"),
		LencoAPIKey:        v.GetString("LENCO_API_KEY"),
		LencoBaseURL:       strings.TrimRight(v.GetString("LENCO_BASE_URL"), "/"),
		LencoWebhookSecret: v.GetString("LENCO_WEBHOOK_SECRET"),
		PaymentCurrency:    strings.ToUpper(v.GetString("PAYMENT_CURRENCY")),
		FrontendURL:        strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		PaymentQueueURL:    v.GetString("PAYMENT_QUEUE_URL"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
	}
}

// IsDevLike reports whether env tolerates in-memory fallbacks.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

// IsAdminEmail reports whether email is listed in ADMIN_EMAILS.
func (c Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range c.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func lowerAll(in []string) []string {
	for i := range in {
		in[i] = strings.ToLower(in[i])
	}
	return in
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
