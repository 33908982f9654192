package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrChallengeUnavailable is returned when every challenge attempt failed.
// No outcome can be computed without a challenge, so it aborts the run.
var ErrChallengeUnavailable = errors.New("challenge unavailable")

// ErrMalformedResponse is returned when a 2xx challenge response lacks a
// required field or carries one of the wrong type. It is never retried.
var ErrMalformedResponse = errors.New("malformed challenge response")

// APIError represents a non-2xx response from the challenge service.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("status %d %s: %s (request_id=%s)", e.StatusCode, e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("status %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// TransportError is one failed attempt: a network failure, a timeout, or a
// non-2xx status (Err is then an *APIError). These are the only failures
// that are retried.
type TransportError struct {
	Op      string
	Attempt int
	Err     error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s attempt %d: %v", e.Op, e.Attempt, e.Err)
}

// Unwrap returns the underlying network or API error.
func (e *TransportError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status behind err, or 0 if err carries none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsTransport reports whether err is a retryable transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// maxErrorMessage caps the raw body echoed into an APIError.
const maxErrorMessage = 512

// parseAPIError attempts to decode a JSON error body; falls back to raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		msg := string(body)
		if len(msg) > maxErrorMessage {
			msg = msg[:maxErrorMessage] + "..."
		}
		apiErr.Message = msg
	}
	return apiErr
}
