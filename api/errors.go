package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrEmptyResponse is returned when a 2xx reply has no body but a value was expected.
var ErrEmptyResponse = errors.New("empty response body")

// Error is a non-2xx response from the partner API.
type Error struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("request failed: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("request failed: %d: %s", e.Status, e.Message)
}

func newError(resp *http.Response, body []byte) *Error {
	apiErr := &Error{
		Status:    resp.StatusCode,
		RequestID: resp.Header.Get("X-Request-ID"),
	}
	if apiErr.RequestID == "" && resp.Request != nil {
		apiErr.RequestID = resp.Request.Header.Get("X-Request-ID")
	}
	apiErr.Code, apiErr.Message = decodeErrorBody(body)
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

// decodeErrorBody understands the error payload shapes the backend emits and
// falls back to the trimmed raw body.
func decodeErrorBody(body []byte) (string, string) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", ""
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", trimmed
	}

	if raw, ok := payload["error"]; ok {
		var nested struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &nested); err == nil && nested.Message != "" {
			return nested.Code, nested.Message
		}
		var text string
		if err := json.Unmarshal(raw, &text); err == nil && text != "" {
			return "", text
		}
	}
	for _, key := range []string{"message", "detail"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var text string
		if err := json.Unmarshal(raw, &text); err == nil && text != "" {
			return "", text
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
			return "", strings.Join(list, "; ")
		}
	}
	return "", trimmed
}

// ValidationError reports an input field rejected before submission.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Message renders err as the single line shown to the operator.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized:
			return "session expired or not logged in: " + apiErr.Message
		case http.StatusForbidden:
			return "not allowed: " + apiErr.Message
		case http.StatusNotFound:
			return "not found: " + apiErr.Message
		}
		return apiErr.Message
	}
	return err.Error()
}

func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

func hasStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}
