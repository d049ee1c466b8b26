package httperr

import (
	"encoding/json"
	"net/http"
)

// Error codes of the course API. The numeric part mirrors the HTTP status.
const (
	BadRequest       = "CRS-400"
	Unauthorized     = "CRS-401"
	Forbidden        = "CRS-403"
	NotFound         = "CRS-404"
	MethodNotAllowed = "CRS-405"
	Conflict         = "CRS-409"
	TooManyRequests  = "CRS-429"
	Internal         = "CRS-500"
	Unavailable      = "CRS-503"
)

// Body is the JSON error payload.
type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Write writes a course API error payload with a CRS-xxx code and message.
func Write(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Body{Code: code, Message: message})
}
