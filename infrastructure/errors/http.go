// Package errors turns non-2xx HTTP responses into typed errors.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 64 << 10

// HTTPError is a failed HTTP exchange.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	// Message is the server supplied reason when the body carried one.
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP error: %s", e.Status)
}

// ParseHTTPError returns nil for 1xx-3xx responses. Otherwise it reads the
// body and extracts an "error" or "message" string when the body is JSON.
func ParseHTTPError(resp *http.Response) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	httpErr := &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		httpErr.Message = fmt.Sprintf("read error body: %v", err)
		return httpErr
	}
	httpErr.Body = string(body)
	httpErr.Message = MessageFromBody(body)
	if httpErr.Message == "" {
		httpErr.Message = httpErr.Body
	}
	return httpErr
}

// MessageFromBody returns the "error" (or "message") field of a JSON body,
// or "" when there is none.
func MessageFromBody(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

// StatusCode returns the status of an *HTTPError anywhere in err's chain.
func StatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}
