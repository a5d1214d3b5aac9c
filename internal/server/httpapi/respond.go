package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/uncovr/uncovr/internal/common"
)

// errorPayload is the error body shape the clients parse.
type errorPayload struct {
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			s.logger.Error(context.Background(), "encoding response", "error", err)
		}
	}
}

// writeError maps service errors onto HTTP statuses. Unknown errors become
// an opaque 500 and are reported to Sentry; everything the client is meant
// to act on travels in the message field.
func (s *Server) writeError(r *http.Request, w http.ResponseWriter, err error) {
	var status int
	message := err.Error()

	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		status = http.StatusUnauthorized
		message = "Invalid credentials"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		status = http.StatusUnauthorized
		message = "Unauthenticated."
	case errors.Is(err, common.ErrorEmailTaken):
		status = http.StatusUnprocessableEntity
		message = "The email has already been taken."
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorWeakPassword):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
		message = "Not found"
	default:
		status = http.StatusInternalServerError
		message = "Internal server error"
		sentry.CaptureException(err)
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	s.writeJSON(w, status, errorPayload{Message: message})
}

// decodeJSON parses a request body, rejecting unknown shapes gently: a
// malformed body is a client error, not a server one.
func (s *Server) decodeJSON(r *http.Request, w http.ResponseWriter, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorPayload{Message: "Invalid request body"})
		return false
	}
	return true
}
