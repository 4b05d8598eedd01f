package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sagarc03/roster"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes the response for err based on its roster.Outcome.
// Internal failures are logged with the request id and never leak details
// to the client.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	switch roster.Classify(err) {
	case roster.OutcomeNotFound:
		WriteError(w, http.StatusNotFound, "not_found", "User not found")
	case roster.OutcomeInvalid:
		WriteError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	default:
		slog.ErrorContext(r.Context(), "request error",
			"error", err,
			"request_id", RequestIDFromContext(r.Context()),
		)
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
