package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// Error kinds returned by the client, test with errors.Is
var (
	// ErrInvalidArgument is returned for malformed ids or out-of-range
	// pagination, detected locally or rejected by the service.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthorized is returned when the API key is rejected
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the key may not access the resource
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned for unknown tasks or artifacts
	ErrNotFound = errors.New("not found")
	// ErrInvalidState is returned when the task status does not allow
	// the operation, e.g. approving a task that is not AWAITING_APPROVAL.
	ErrInvalidState = errors.New("invalid task state")
	// ErrRateLimited is returned when the service throttles requests
	ErrRateLimited = errors.New("rate limited")
	// ErrServer is returned for 5xx responses
	ErrServer = errors.New("service error")
	// ErrTransport is returned when the request could not be completed
	ErrTransport = errors.New("transport error")
	// ErrInvalidResponse is returned when the response can not be decoded
	ErrInvalidResponse = errors.New("invalid response")
)

// maxErrorMessage limits the body text kept in APIError
const maxErrorMessage = 512

// APIError describes a non-2xx response from Tendem.
type APIError struct {
	Op         string
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %s %s: %d %s", e.Op, e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// KindForStatus returns the error kind for the HTTP status code,
// or nil for a successful status.
func KindForStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusBadRequest, code == http.StatusUnprocessableEntity:
		return ErrInvalidArgument
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusConflict, code == http.StatusPreconditionFailed:
		return ErrInvalidState
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code >= 500:
		return ErrServer
	default:
		return ErrInvalidResponse
	}
}

// newAPIError builds the marked error for a failed response
func newAPIError(op, method, path string, code int, body []byte) error {
	apiErr := &APIError{
		Op:         op,
		Method:     method,
		Path:       path,
		StatusCode: code,
		Message:    errorMessage(body),
	}
	return errors.Mark(apiErr, KindForStatus(code))
}

// errorMessage extracts a message from a JSON error body,
// falling back to the trimmed body text.
func errorMessage(body []byte) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if len(payload.Detail) > 0 {
			var s string
			if json.Unmarshal(payload.Detail, &s) == nil {
				return truncate(s)
			}
			return truncate(string(payload.Detail))
		}
		if payload.Message != "" {
			return truncate(payload.Message)
		}
		if payload.Error != "" {
			return truncate(payload.Error)
		}
	}
	return truncate(strings.TrimSpace(string(body)))
}

func truncate(s string) string {
	if len(s) <= maxErrorMessage {
		return s
	}
	end := maxErrorMessage
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end] + "..."
}

// IsRetriable reports whether a failed GET may be retried
func IsRetriable(err error) bool {
	return errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrRateLimited) ||
		isRetriableStatus(err)
}

func isRetriableStatus(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
