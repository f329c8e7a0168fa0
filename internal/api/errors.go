package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the API rejects the bearer token or
	// the supplied credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnsupported is returned by realm-bound clients for operations the
	// realm's API surface does not expose.
	ErrUnsupported = errors.New("operation not supported in this realm")
)

// StatusError reports a non-2xx response from the API. Message carries the
// server-provided message when the body was a well-formed envelope.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.StatusCode)
}

// Is lets callers match 401/403 responses against ErrUnauthorized.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && (e.StatusCode == 401 || e.StatusCode == 403)
}

// RequestError reports a rejected request: the API answered but declined the
// operation (success=false in the envelope). These are authentication or
// validation failures, not transport faults.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("api: request rejected: %s", e.Message)
}

// UserMessage extracts a message suitable for inline display. Transport and
// unexpected errors yield the supplied fallback; rejections and status
// responses surface the server's wording.
func UserMessage(err error, fallback string) string {
	var re *RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}
