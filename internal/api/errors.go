// Package api implements the HTTP client for the Linktine server API.
package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnreachable indicates a transport-level failure reaching the
	// server (DNS, connection refused, timeout, TLS).
	ErrUnreachable = errors.New("server unreachable")
	// ErrMalformedResponse indicates a 2xx response whose body could not
	// be parsed into the expected shape.
	ErrMalformedResponse = errors.New("malformed server response")
)

// RejectedError is returned when the server responded with a non-2xx
// status. The body carries the server-provided detail, if any.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server rejected request (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("server rejected request (status %d): %s", e.StatusCode, e.Body)
}

// IsUnauthorized reports whether err is a rejection with status 401.
func IsUnauthorized(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected) && rejected.StatusCode == http.StatusUnauthorized
}
