package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName     string
	AppEnv      string
	Port        string
	ContentPath string // empty: serve the embedded reading list

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string
	AutoMigrate  bool

	// Identity
	JWTSecret               string
	JWTExpiry               time.Duration
	FirebaseCredentialsPath string

	// HTTP
	APIKey             string
	CORSOrigins        []string
	RateLimitPerMinute int
	RateLimitBurst     int
	RedisURL           string // optional: share rate limits across instances
	ShutdownTimeout    time.Duration

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:     envString("APP_NAME", "No Chase"),
		AppEnv:      envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:        envString("PORT", "8090"),
		ContentPath: envString("CONTENT_PATH", ""),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/nochase.db?_pragma=journal_mode(WAL)"),
		AutoMigrate:  envBool("AUTO_MIGRATE", true),

		// Identity
		JWTExpiry:               envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days
		FirebaseCredentialsPath: envString("FIREBASE_CREDENTIALS_PATH", ""),

		// HTTP
		APIKey:             envString("API_KEY", ""),
		CORSOrigins:        envList("CORS_ORIGINS"),
		RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 60),
		RateLimitBurst:     envInt("RATE_LIMIT_BURST", 10),
		RedisURL:           envString("REDIS_URL", ""),
		ShutdownTimeout:    envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	// Firebase tokens replace locally signed ones
	if cfg.FirebaseCredentialsPath == "" {
		cfg.JWTSecret = envRequired("JWT_SECRET")
	} else {
		cfg.JWTSecret = envString("JWT_SECRET", "")
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction refuses settings that are only acceptable on a laptop.
func validateProduction(cfg *Config) {
	if cfg.FirebaseCredentialsPath == "" && len(cfg.JWTSecret) < 32 {
		slog.Error("production deployment requires a JWT_SECRET of at least 32 bytes",
			"hint", "set FIREBASE_CREDENTIALS_PATH to verify Firebase ID tokens instead")
		os.Exit(1)
	}
	for _, origin := range cfg.CORSOrigins {
		if origin == "*" {
			slog.Warn("CORS_ORIGINS allows any origin in production")
		}
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envList splits a comma separated value, dropping blanks.
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsesFirebase reports whether bearer tokens are Firebase ID tokens.
func (c *Config) UsesFirebase() bool {
	return c.FirebaseCredentialsPath != ""
}

// Sanitized returns a copy of the config with only public/safe fields.
// Secrets and credentials are excluded. Safe to expose in ctx.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:            c.AppName,
		AppEnv:             c.AppEnv,
		Port:               c.Port,
		DBDriver:           c.DBDriver,
		CORSOrigins:        append([]string(nil), c.CORSOrigins...),
		RateLimitPerMinute: c.RateLimitPerMinute,
		RateLimitBurst:     c.RateLimitBurst,
	}
}
