package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vaheed/coursenova/internal/config"
	"github.com/vaheed/coursenova/internal/lib/httperr"
	"github.com/vaheed/coursenova/internal/logging"
	"github.com/vaheed/coursenova/internal/metrics"
	"github.com/vaheed/coursenova/internal/store"
	"github.com/vaheed/coursenova/internal/telemetry"
	"github.com/vaheed/coursenova/pkg/routes"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	maxBodyBytes    int64 = 1 << 20 // 1MB
	otelServiceName       = "coursenova-api"
)

// Server exposes the HTTP handlers for the course API.
type Server struct {
	store        store.Store
	events       telemetry.Publisher
	requireAuth  bool
	signingKey   []byte
	rateLimitRPM int
	version      string
}

// Option customises a Server.
type Option func(*Server)

// WithEvents sets where course change events are published.
func WithEvents(p telemetry.Publisher) Option {
	return func(s *Server) {
		if p != nil {
			s.events = p
		}
	}
}

// NewServer builds a Server using the provided persistence store.
func NewServer(st store.Store, cfg config.Config, opts ...Option) *Server {
	s := &Server{
		store:        st,
		events:       telemetry.Noop{},
		requireAuth:  cfg.RequireAuth,
		signingKey:   []byte(cfg.JWTSigningKey),
		rateLimitRPM: cfg.RateLimitRPM,
		version:      cfg.ServiceVersion,
	}
	if s.version == "" {
		s.version = "dev"
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Router returns the configured HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(otelhttp.NewMiddleware(otelServiceName))
	r.Use(s.logMiddleware)
	if s.rateLimitRPM > 0 {
		r.Use(httprate.Limit(s.rateLimitRPM, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusTooManyRequests, httperr.TooManyRequests, "rate limit exceeded")
			}),
		))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, httperr.NotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, httperr.MethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Get("/version", s.versionInfo)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/telemetry/events", s.telemetryEvent)
	r.With(s.authMiddleware).Post("/tokens", s.issueToken)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get(routes.ChiPattern(routes.CourseList), s.listCourses)
		r.Post(routes.ChiPattern(routes.CourseList), s.createCourse)
		r.Get(routes.ChiPattern(routes.CourseDetail), s.getCourse)
		r.Put(routes.ChiPattern(routes.CourseDetail), s.updateCourse)
		r.Patch(routes.ChiPattern(routes.CourseDetail), s.patchCourse)
		r.Delete(routes.ChiPattern(routes.CourseDetail), s.deleteCourse)
	})

	return r
}

// StartHTTP listens and serves until the context is canceled.
func StartHTTP(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestSeconds.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		}
		spanCtx := trace.SpanContextFromContext(r.Context())
		if spanCtx.IsValid() {
			fields = append(fields, zap.String("trace_id", spanCtx.TraceID().String()))
		}
		logging.L.Info("http_request", fields...)
	})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Health(r.Context()); err != nil {
		logging.L.Warn("store_not_ready", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, httperr.Unavailable, "store not ready")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) versionInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Helpers
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	if dec.More() {
		return errors.New("unexpected trailing data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the standard error payload of the API.
type ErrorBody = httperr.Body

func writeError(w http.ResponseWriter, status int, code, msg string) {
	httperr.Write(w, status, code, msg)
}
