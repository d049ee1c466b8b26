package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaheed/coursenova/internal/config"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

func TestExporterOptions(t *testing.T) {
	cases := []struct {
		name     string
		cfg      config.Config
		host     string
		nOptions int
	}{
		{"plain url", config.Config{OTelEndpoint: "http://collector:4318"}, "collector:4318", 2},
		{"tls url with path", config.Config{OTelEndpoint: "https://otel.internal/custom/traces/"}, "otel.internal", 2},
		{"host port", config.Config{OTelEndpoint: "collector:4318"}, "collector:4318", 1},
		{"host port insecure flag", config.Config{OTelEndpoint: "collector:4318", OTelInsecure: true}, "collector:4318", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts, host, err := exporterOptions(tc.cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.host, host)
			assert.Len(t, opts, tc.nOptions)
		})
	}

	_, _, err := exporterOptions(config.Config{OTelEndpoint: "http://"})
	assert.Error(t, err)
}

func TestCourseResource(t *testing.T) {
	res, err := courseResource(context.Background(), "coursenova-api", config.Config{
		ServiceVersion: "1.4.0",
		Environment:    "staging",
		DatabaseURL:    "postgres://x",
	})
	require.NoError(t, err)
	set := res.Set()
	for k, want := range map[attribute.Key]string{
		semconv.ServiceNameKey:           "coursenova-api",
		semconv.ServiceNamespaceKey:      "coursenova",
		semconv.ServiceVersionKey:        "1.4.0",
		semconv.DeploymentEnvironmentKey: "staging",
		"coursenova.store":               "postgres",
	} {
		v, ok := set.Value(k)
		require.True(t, ok, string(k))
		assert.Equal(t, want, v.AsString(), string(k))
	}
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, sampler(0.5).Description(), "TraceIDRatioBased{0.5}")
}

func TestTracingDisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := Tracing(context.Background(), "coursenova-api", config.Config{})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestTracingEnabledFromConfig(t *testing.T) {
	cfg := config.Config{OTelEndpoint: "http://127.0.0.1:4318", ServiceVersion: "dev", TraceSampleRatio: 1}
	shutdown, err := Tracing(context.Background(), "coursenova-api", cfg)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, shutdown(ctx))
}
