package graph

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for Microsoft Graph API responses.
var (
	// ErrUnauthorised indicates the access token is invalid or expired.
	ErrUnauthorised = errors.New("graph: unauthorised")

	// ErrForbidden indicates the caller lacks permission for the resource.
	ErrForbidden = errors.New("graph: forbidden")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("graph: not found")

	// ErrRateLimited indicates the request was throttled.
	ErrRateLimited = errors.New("graph: rate limited")

	// ErrBadRequest indicates the request was malformed.
	ErrBadRequest = errors.New("graph: bad request")

	// ErrServerError indicates a server-side failure.
	ErrServerError = errors.New("graph: server error")

	// ErrNotAuthenticated indicates no client has been initialised for the
	// authentication mode an operation requires.
	ErrNotAuthenticated = errors.New("graph: not initialised for this authentication mode")

	// ErrTimeout indicates the per-request timeout elapsed.
	ErrTimeout = errors.New("graph: request timed out")
)

// WrapError converts an HTTP status code to an appropriate error.
func WrapError(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorised
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusBadRequest:
		return ErrBadRequest
	default:
		if statusCode >= 500 {
			return ErrServerError
		}
		return nil
	}
}

// StatusError carries a non-success Graph response for display.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graph: request failed with status %d", e.Code)
}

// Unwrap lets errors.Is match the sentinel for the status code.
func (e *StatusError) Unwrap() error {
	return WrapError(e.Code)
}

// InsufficientPermissions reports whether the error is a 401 or 403, the
// usual sign that the signed-in identity lacks a required scope or role.
func InsufficientPermissions(err error) bool {
	return errors.Is(err, ErrUnauthorised) || errors.Is(err, ErrForbidden)
}
