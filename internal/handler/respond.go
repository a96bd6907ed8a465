package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fleetflow/backend/internal/domain"
	"github.com/fleetflow/backend/internal/service"
)

// errorResponse is the JSON shape of every non-2xx body.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
// Encoding failures are logged, not surfaced; the status line is already gone.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps a service error onto an HTTP status and error code.
//
// Eligibility failures carry their typed reason through as the error code,
// so a client can tell driver_suspended apart from vehicle_unavailable
// without parsing prose.
func writeError(w http.ResponseWriter, err error) {
	var eErr *domain.EligibilityError
	switch {
	case errors.As(err, &eErr):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error: errorDetail{Code: string(eErr.Reason), Message: eErr.Message},
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: errorDetail{Code: "not_found", Message: unwrapMessage(err)},
		})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: errorDetail{Code: "validation_error", Message: unwrapMessage(err)},
		})
	case errors.Is(err, domain.ErrInvalidState):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error: errorDetail{Code: "invalid_state", Message: unwrapMessage(err)},
		})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error: errorDetail{Code: "conflict", Message: unwrapMessage(err)},
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error: errorDetail{Code: "invalid_credentials", Message: service.ErrInvalidCredentials.Error()},
		})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorDetail{Code: "internal", Message: "internal server error"},
		})
	}
}

// writeBadRequest rejects a request before it reaches the service layer,
// e.g. a malformed body or an unparseable path parameter.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error: errorDetail{Code: "bad_request", Message: message},
	})
}

// decodeJSON parses the request body into v. Unknown fields are rejected so
// typos in payloads fail loudly instead of silently doing nothing.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// unwrapMessage extracts the human-readable tail from a wrapped sentinel
// error, e.g. "service.TripService.Patch: validation error: origin and
// destination are required" → "origin and destination are required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, marker := range []string{
		"validation error: ",
		"not found: ",
		"invalid state: ",
		"conflict: ",
	} {
		if i := strings.LastIndex(msg, marker); i >= 0 {
			return msg[i+len(marker):]
		}
	}
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
