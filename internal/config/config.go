// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	ServerPort     string
	JWTSecret      string
	AllowedOrigins []string
	RedisURL       string
	UploadDir      string
	OpenAIKey      string
	LogLevel       string
	DBMaxConns     int32
	MigrateOnStart bool
	SecureCookies  bool
	TokenTTL       time.Duration
}

// Load reads configuration from the environment, after loading .env if present.
// Precedence: explicit env var > .env file > default.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		RedisURL:    os.Getenv("REDIS_URL"),
		UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
	for _, o := range strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil || maxConns < 1 {
		return cfg, fmt.Errorf("invalid DB_MAX_CONNS %q", os.Getenv("DB_MAX_CONNS"))
	}
	cfg.DBMaxConns = int32(maxConns)

	cfg.MigrateOnStart, err = strconv.ParseBool(getEnv("MIGRATE_ON_START", "false"))
	if err != nil {
		return cfg, fmt.Errorf("invalid MIGRATE_ON_START: %w", err)
	}

	cfg.SecureCookies, err = strconv.ParseBool(getEnv("SECURE_COOKIES", "true"))
	if err != nil {
		return cfg, fmt.Errorf("invalid SECURE_COOKIES: %w", err)
	}

	cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return cfg, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
