package observability

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vaheed/coursenova/internal/config"
	"github.com/vaheed/coursenova/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"
)

const serviceNamespace = "coursenova"

// Tracing installs a global tracer provider exporting to cfg.OTelEndpoint
// over OTLP/HTTP. With no endpoint it does nothing and the returned
// shutdown is a no-op.
func Tracing(ctx context.Context, service string, cfg config.Config) (func(context.Context) error, error) {
	if cfg.OTelEndpoint == "" {
		return noopShutdown, nil
	}
	opts, hostPort, err := exporterOptions(cfg)
	if err != nil {
		return noopShutdown, err
	}

	setupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	exp, err := otlptracehttp.New(setupCtx, opts...)
	if err != nil {
		return noopShutdown, fmt.Errorf("otlp trace exporter: %w", err)
	}
	res, err := courseResource(setupCtx, service, cfg)
	if err != nil {
		return noopShutdown, fmt.Errorf("otel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.TraceSampleRatio)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logging.L.Info("tracing_enabled",
		zap.String("endpoint", hostPort),
		zap.String("service", service),
		zap.Float64("sample_ratio", cfg.TraceSampleRatio),
	)
	return tp.Shutdown, nil
}

// exporterOptions accepts either host:port or a URL; an http:// scheme or
// OTelInsecure turns TLS off, a URL path replaces /v1/traces.
func exporterOptions(cfg config.Config) ([]otlptracehttp.Option, string, error) {
	raw := cfg.OTelEndpoint
	hostPort, path, insecure := raw, "", cfg.OTelInsecure
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, "", fmt.Errorf("otel endpoint: %w", err)
		}
		if u.Host == "" {
			return nil, "", fmt.Errorf("otel endpoint %q has no host", raw)
		}
		hostPort = u.Host
		path = strings.TrimRight(u.Path, "/")
		insecure = insecure || u.Scheme == "http"
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(hostPort)}
	if path != "" {
		opts = append(opts, otlptracehttp.WithURLPath(path))
	}
	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return opts, hostPort, nil
}

func courseResource(ctx context.Context, service string, cfg config.Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(service),
		semconv.ServiceNamespace(serviceNamespace),
		semconv.ServiceVersion(cfg.ServiceVersion),
	}
	if cfg.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(cfg.Environment))
	}
	if cfg.DatabaseURL != "" {
		attrs = append(attrs, attribute.String("coursenova.store", "postgres"))
	} else {
		attrs = append(attrs, attribute.String("coursenova.store", "memory"))
	}
	return resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(attrs...),
	)
}

func sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

func noopShutdown(context.Context) error { return nil }
