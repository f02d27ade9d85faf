package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// error classes of backend calls, matched with errors.Is
var (
	// ErrTransport is a network failure, timeout, server-side failure or malformed response. Recoverable.
	ErrTransport = errors.New("backend unavailable")
	// ErrRejected is a well-formed refusal of the requested action, not retried.
	ErrRejected = errors.New("rejected by backend")
	// ErrNotFound means the job no longer exists on the backend.
	ErrNotFound = errors.New("job not found")
)

// APIError is a non-2xx response of the backend
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string // message extracted from the error body, may be empty
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d, %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Unwrap maps the status code to one of the error classes
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode >= 500, e.StatusCode == http.StatusRequestTimeout, e.StatusCode == http.StatusTooManyRequests:
		return ErrTransport
	default:
		return ErrRejected
	}
}
