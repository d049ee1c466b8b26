package api

import (
	"net/http"

	"github.com/vaheed/coursenova/internal/lib/httperr"
	"github.com/vaheed/coursenova/internal/logging"
	"github.com/vaheed/coursenova/internal/metrics"
	"github.com/vaheed/coursenova/pkg/types"
	"go.uber.org/zap"
)

// telemetryEvent is the sink the Redis buffer flushes course events to.
func (s *Server) telemetryEvent(w http.ResponseWriter, r *http.Request) {
	var ev types.Event
	if err := decodeJSON(r, &ev); err != nil {
		writeError(w, http.StatusBadRequest, httperr.BadRequest, err.Error())
		return
	}
	if ev.Type == "" {
		writeError(w, http.StatusBadRequest, httperr.BadRequest, "type is required")
		return
	}
	metrics.TelemetryEventsTotal.Inc()
	logging.L.Info("telemetry_event_received",
		zap.String("event_id", ev.ID),
		zap.String("type", ev.Type),
		zap.Int64("course_id", ev.CourseID),
		zap.Time("ts", ev.TS),
	)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "received"})
}
