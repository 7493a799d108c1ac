package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthRequired is returned when a request needs a valid session token and none is
	// available: missing, malformed, expired locally, or rejected by the server.
	ErrAuthRequired = errors.New("authentication required: please log in")
	// ErrNotFound is returned when a local state lookup misses. No network is involved.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when input is rejected client-side before any request is sent.
	ErrValidation = errors.New("validation failed")
	// ErrMalformedResponse is returned when the remote API answers with a body that cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// RemoteError is returned when the remote API answers with a non-2xx status
// or a 2xx envelope that does not report success.
type RemoteError struct {
	Status  int    // HTTP status code
	Message string // Server provided message, if any
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error: %d %s", e.Status, http.StatusText(e.Status))
	}

	return fmt.Sprintf("remote error: %d: %s", e.Status, e.Message)
}

// NetworkError is returned when no response was received from the remote API.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is a RemoteError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var remoteErr *RemoteError

	return errors.As(err, &remoteErr) && remoteErr.Status == status
}
