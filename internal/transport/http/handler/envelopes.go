package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-signup-api/internal/domain"
)

// Envelope is the uniform response wrapper: a user-facing message, a
// developer-facing message and an optional payload.
type Envelope struct {
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	DevMessage string      `json:"dev_message,omitempty"`
	Body       interface{} `json:"body,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, status int, message, devMessage string, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		StatusCode: status,
		Message:    message,
		DevMessage: devMessage,
		Body:       body,
	})
}

// writeValidationError reports malformed input caught before the workflow runs.
func writeValidationError(w http.ResponseWriter, err error) {
	writeEnvelope(w, http.StatusBadRequest, err.Error(), "request validation failed", nil)
}

// writeServiceError maps a workflow error to an HTTP status by its domain
// kind. Client-correctable conditions keep their actionable message;
// anything unrecognized is treated as an infrastructure fault, logged
// with detail and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail), errors.Is(err, domain.ErrConflict):
		writeEnvelope(w, http.StatusConflict, errMessage(err), op+" rejected", nil)
	case errors.Is(err, domain.ErrCodeMismatch), errors.Is(err, domain.ErrBadRequest):
		writeEnvelope(w, http.StatusBadRequest, errMessage(err), op+" rejected", nil)
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrUnauthorized):
		writeEnvelope(w, http.StatusUnauthorized, errMessage(err), op+" rejected", nil)
	case errors.Is(err, domain.ErrNotFound):
		writeEnvelope(w, http.StatusNotFound, errMessage(err), op+" target not found", nil)
	default:
		slog.Error("internal error", "op", op, "err", err)
		writeEnvelope(w, http.StatusInternalServerError, "something went wrong", "internal error in "+op, nil)
	}
}

// errMessage unwraps to the sentinel so responses carry the stable
// domain message rather than internal wrapping context.
func errMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrDuplicateEmail,
		domain.ErrCodeMismatch,
		domain.ErrInvalidCredentials,
		domain.ErrTokenExpired,
		domain.ErrTokenInvalid,
		domain.ErrNotFound,
		domain.ErrConflict,
		domain.ErrUnauthorized,
		domain.ErrBadRequest,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
