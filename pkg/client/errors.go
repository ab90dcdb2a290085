package client

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is a non-2xx answer from the relay.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err wraps an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// IsNotFound reports a 404, which Unsubscribe returns for an unknown endpoint.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}
