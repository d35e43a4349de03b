package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/dcs-inspector-core/internal/host"
	"github.com/nerrad567/dcs-inspector-core/internal/inspector"
	"github.com/nerrad567/dcs-inspector-core/internal/lookup"
	"github.com/nerrad567/dcs-inspector-core/internal/settings"
	"github.com/nerrad567/dcs-inspector-core/internal/window"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeConflict       = "conflict"
	ErrCodeInternal       = "internal_error"
	ErrCodeValidation     = "validation_error"
	ErrCodeUnavailable    = "host_unavailable"
	ErrCodeMethodNotAllow = "method_not_allowed"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDomainError maps an inspector error onto an HTTP status.
//
// A missing selection is a conflict: the user has to pick a row first, and
// the prompt has already gone out on the event stream.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lookup.ErrMissingSelection):
		writeError(w, http.StatusConflict, ErrCodeConflict, lookup.MissingSelectionPrompt)
	case errors.Is(err, window.ErrNoTargetWindow):
		writeNotFound(w, err.Error())
	case errors.Is(err, window.ErrUnknownKind),
		errors.Is(err, inspector.ErrUnknownAction),
		errors.Is(err, lookup.ErrRowOutOfRange),
		errors.Is(err, window.ErrMalformedMessage):
		writeBadRequest(w, err.Error())
	case errors.Is(err, settings.ErrInvalidMapping):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, host.ErrNotConnected):
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "device-control host is not connected")
	case errors.Is(err, host.ErrSendBufferFull):
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "device-control host is not keeping up, retry later")
	default:
		s.logger.Error("inspector operation failed", "error", err)
		writeInternalError(w, "internal server error")
	}
}
