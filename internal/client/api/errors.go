package api

import "errors"

var (
	// ErrUnavailable covers transport-level failures: the request never
	// produced an HTTP response (no network, refused connection, timeout).
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized marks responses the server rejected with 401.
	ErrUnauthorized = errors.New("unauthorized")
)

// RequestError is the error produced for any failed request: a non-success
// HTTP status or a transport failure. Message holds the server-provided
// message when one was present, otherwise a generic description.
type RequestError struct {
	// Status is the HTTP status code, or 0 for transport failures.
	Status  int
	Message string

	cause error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.cause
}
