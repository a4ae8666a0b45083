package routes

import (
	"errors"
	"net/http"

	"vpn-coordination-portal/internal/portal"
)

// HTTPError represents an error with an associated HTTP status code and user message
type HTTPError struct {
	Err        error
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(statusCode int, err error, message string) *HTTPError {
	return &HTTPError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
	}
}

var ErrBadRequestID = errors.New("invalid request id")

// errorStatusMap maps errors to HTTP status codes
var errorStatusMap = map[error]int{
	portal.ErrValidation: http.StatusBadRequest,
	ErrBadRequestID:      http.StatusBadRequest,
	portal.ErrNotFound:   http.StatusNotFound,
	portal.ErrState:      http.StatusConflict,
}

// errorMessageMap maps errors to user-friendly messages. Validation and
// state errors carry their own detail, so the map only covers the rest.
var errorMessageMap = map[error]string{
	portal.ErrNotFound: "Request not found. The link may be invalid.",
	ErrBadRequestID:    "Invalid request id",
}

// GetErrorStatus returns the HTTP status code for an error
func GetErrorStatus(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}

	for knownErr, status := range errorStatusMap {
		if errors.Is(err, knownErr) {
			return status
		}
	}

	return http.StatusInternalServerError
}

// GetErrorMessage returns a user-friendly message for an error
func GetErrorMessage(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}

	for knownErr, message := range errorMessageMap {
		if errors.Is(err, knownErr) {
			return message
		}
	}

	// Validation and state errors read fine as-is; hide everything else.
	if errors.Is(err, portal.ErrValidation) || errors.Is(err, portal.ErrState) {
		return err.Error()
	}
	return "An internal error occurred"
}
