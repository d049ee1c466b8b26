package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"ADDR", "DATABASE_URL", "REQUIRE_AUTH", "RATE_LIMIT_RPM", "DB_CONNECT_TIMEOUT", "SERVICE_VERSION"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("addr: %q", cfg.Addr)
	}
	if cfg.RequireAuth {
		t.Fatalf("auth should be off by default")
	}
	if cfg.RateLimitRPM != 0 {
		t.Fatalf("rate limit should be off by default, got %d", cfg.RateLimitRPM)
	}
	if cfg.DBConnectTimeout != 60*time.Second {
		t.Fatalf("db timeout: %s", cfg.DBConnectTimeout)
	}
	if cfg.ServiceVersion != "dev" {
		t.Fatalf("version: %q", cfg.ServiceVersion)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("REQUIRE_AUTH", "yes")
	t.Setenv("RATE_LIMIT_RPM", "120")
	t.Setenv("DB_CONNECT_TIMEOUT", "5s")
	t.Setenv("DATABASE_URL", " postgres://x ")
	cfg := Load()
	if cfg.Addr != ":9090" || !cfg.RequireAuth || cfg.RateLimitRPM != 120 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.DBConnectTimeout != 5*time.Second {
		t.Fatalf("db timeout: %s", cfg.DBConnectTimeout)
	}
	if cfg.DatabaseURL != "postgres://x" {
		t.Fatalf("dsn not trimmed: %q", cfg.DatabaseURL)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPM", "lots")
	t.Setenv("DB_CONNECT_TIMEOUT", "soon")
	cfg := Load()
	if cfg.RateLimitRPM != 0 || cfg.DBConnectTimeout != 60*time.Second {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadTracing(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "")
	cfg := Load()
	if cfg.OTelEndpoint != "" || cfg.TraceSampleRatio != 1 {
		t.Fatalf("unexpected tracing defaults: %+v", cfg)
	}

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", " http://collector:4318 ")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")
	cfg = Load()
	if cfg.OTelEndpoint != "http://collector:4318" || !cfg.OTelInsecure || cfg.TraceSampleRatio != 0.25 {
		t.Fatalf("unexpected tracing config: %+v", cfg)
	}
}
