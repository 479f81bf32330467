// Package api provides the JSON request/response helpers shared by all
// feature handlers.
package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// errorBody is the uniform error payload.
type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON sends a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error payload.
func Error(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Error: msg})
}

// Denied sends the uniform access-denied response. It deliberately carries
// no detail about which permission source refused, so a caller cannot
// probe the shape of other users' or teams' grants.
func Denied(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "access denied")
}

// Undetermined reports a decision that could not be computed because a
// backing store was unreachable. The request is denied with 503 so the
// client may retry; it is never treated as an allow.
func Undetermined(w http.ResponseWriter, logger *zap.Logger, err error) {
	logger.Error("access decision undetermined", zap.Error(err))
	Error(w, http.StatusServiceUnavailable, "access check unavailable, try again")
}

// Decode reads a JSON request body into target with a size cap.
func Decode(r *http.Request, target any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(target)
}
