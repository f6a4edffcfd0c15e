package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every environment-sourced setting for the process.
// Loaded once in main and passed into components explicitly; nothing
// reads the environment after startup.
type Config struct {
	Env  string
	Port int

	DBURL    string
	RedisURL string

	SecretKey         string
	SessionCookieName string
	SessionMaxAge     time.Duration

	GCPProjectID string
	PubSubTopic  string

	ItemsCacheTTL time.Duration

	CORSOrigins []string

	AdminEmail    string
	AdminPassword string

	OTLPEndpoint string
}

func Load() Config {
	// best-effort .env for local development
	_ = godotenv.Load()

	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		DBURL:    getEnv("DATABASE_URL", buildDBURL()),
		RedisURL: getEnv("REDIS_URL", ""),

		SecretKey:         getEnv("SECRET_KEY", "change-me"),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "session"),
		SessionMaxAge:     time.Duration(getEnvInt("SESSION_MAX_AGE_SECONDS", 7*24*60*60)) * time.Second,

		GCPProjectID: getEnv("GCP_PROJECT_ID", ""),
		PubSubTopic:  getEnv("PUBSUB_TOPIC", ""),

		ItemsCacheTTL: time.Duration(getEnvInt("ITEMS_CACHE_TTL_SECONDS", 30)) * time.Second,

		CORSOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "stackbase")
	pass := getEnv("DB_PASSWORD", "stackbase")
	name := getEnv("DB_NAME", "stackbase")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}
