package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures the environment options of the course API.
type Config struct {
	Addr             string
	DatabaseURL      string
	RequireDatabase  bool
	DBConnectTimeout time.Duration
	RequireAuth      bool
	JWTSigningKey    string
	RateLimitRPM     int
	RedisAddr        string
	TelemetryURL     string
	LogLevel         string
	ServiceVersion   string
	Environment      string

	// Tracing is off while OTelEndpoint is empty.
	OTelEndpoint     string
	OTelInsecure     bool
	TraceSampleRatio float64
}

func Load() Config {
	return Config{
		Addr:             getenvDefault("ADDR", ":8080"),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RequireDatabase:  getenvBool("REQUIRE_DATABASE"),
		DBConnectTimeout: getenvDuration("DB_CONNECT_TIMEOUT", 60*time.Second),
		RequireAuth:      getenvBool("REQUIRE_AUTH"),
		JWTSigningKey:    os.Getenv("JWT_SIGNING_KEY"),
		RateLimitRPM:     getenvInt("RATE_LIMIT_RPM", 0),
		RedisAddr:        strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		TelemetryURL:     strings.TrimSpace(os.Getenv("TELEMETRY_URL")),
		LogLevel:         getenvDefault("LOG_LEVEL", "info"),
		ServiceVersion:   getenvDefault("SERVICE_VERSION", "dev"),
		Environment:      os.Getenv("SERVICE_ENV"),
		OTelEndpoint:     strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTelInsecure:     getenvBool("OTEL_EXPORTER_OTLP_INSECURE"),
		TraceSampleRatio: getenvFloat("OTEL_TRACES_SAMPLER_ARG", 1),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool accepts the usual truthy spellings; anything else is false.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on", "y", "t":
		return true
	default:
		return false
	}
}

func getenvBool(key string) bool {
	return ParseBool(os.Getenv(key))
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
