package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coursenova",
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by method, route pattern and status.",
	}, []string{"method", "route", "status"})
	HTTPRequestSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "coursenova",
		Name:      "http_request_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	CourseOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coursenova",
		Name:      "course_ops_total",
		Help:      "Successful course mutations, by operation.",
	}, []string{"op"})
	TelemetryEventsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "coursenova",
		Name:      "telemetry_events_total",
		Help:      "Total telemetry events received.",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestSeconds, CourseOpsTotal, TelemetryEventsTotal)
}
