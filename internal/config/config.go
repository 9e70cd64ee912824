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
	ServerPort  string
	DatabaseURL string

	MigrateOnStart bool

	Auth struct {
		JWTSecret string
		TokenTTL  time.Duration
		RateLimit float64
		RateBurst int
	}

	Log struct {
		Level  string
		Format string
	}

	Kafka struct {
		Brokers     []string
		OrdersTopic string
	}

	AllowedOrigins   []string
	OrderVerifyTotal bool
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}

	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "168h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be a positive duration")
	}
	cfg.Auth.TokenTTL = ttl

	rps, err := strconv.ParseFloat(getEnv("AUTH_RATE_LIMIT", "5"), 64)
	if err != nil || rps <= 0 {
		return nil, fmt.Errorf("AUTH_RATE_LIMIT must be a positive number")
	}
	cfg.Auth.RateLimit = rps

	burst, err := strconv.Atoi(getEnv("AUTH_RATE_BURST", "10"))
	if err != nil || burst <= 0 {
		return nil, fmt.Errorf("AUTH_RATE_BURST must be a positive integer")
	}
	cfg.Auth.RateBurst = burst

	if cfg.MigrateOnStart, err = parseBool("MIGRATE_ON_START", true); err != nil {
		return nil, err
	}
	if cfg.OrderVerifyTotal, err = parseBool("ORDER_VERIFY_TOTAL", false); err != nil {
		return nil, err
	}

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "text")

	cfg.Kafka.Brokers = splitList(os.Getenv("KAFKA_BROKERS"))
	cfg.Kafka.OrdersTopic = getEnv("KAFKA_ORDERS_TOPIC", "glacierfarm.orders")

	cfg.AllowedOrigins = splitList(getEnv("FRONTEND_URL", "http://localhost:3000"))

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func parseBool(key string, defaultValue bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return v, nil
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
