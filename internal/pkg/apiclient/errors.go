package apiclient

import (
	"errors"
	"fmt"
)

// AuthError is returned for 401 and 403 responses. Callers react to it by
// forcing a logout.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return e.Message
}

// RequestError is returned for every other non-2xx response
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return e.Message
}

// IsAuthError reports whether err is, or wraps, an AuthError
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// StatusCode returns the HTTP status carried by an AuthError or RequestError,
// or 0 for any other error
func StatusCode(err error) int {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.StatusCode
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

func defaultErrorMessage(statusCode int) string {
	return fmt.Sprintf("request failed with status %d", statusCode)
}
