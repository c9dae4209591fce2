package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnavailable      = errors.New("server unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrEmptyAccessToken = errors.New("refresh response carried no access token")
)

// nonFieldKeys hold messages that are not tied to a form field.
var nonFieldKeys = map[string]bool{"non_field_errors": true, "__all__": true}

// APIError is a non-2xx response from the records service.
type APIError struct {
	StatusCode int
	// Detail is the top-level message: a JSON string body or the "detail" key.
	Detail string
	// Fields holds per-field validation messages.
	Fields map[string][]string
	Raw    []byte
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Raw: body}

	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		e.Detail = s
		return e
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return e
	}
	for key, raw := range obj {
		msgs := decodeMessages(raw)
		if len(msgs) == 0 {
			continue
		}
		if key == "detail" {
			e.Detail = strings.Join(msgs, " ")
			continue
		}
		if e.Fields == nil {
			e.Fields = make(map[string][]string)
		}
		e.Fields[key] = msgs
	}
	return e
}

// decodeMessages accepts "msg", ["msg", ...] or a nested object of either.
func decodeMessages(raw json.RawMessage) []string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err == nil {
		var out []string
		for k, v := range nested {
			for _, m := range decodeMessages(v) {
				out = append(out, k+": "+m)
			}
		}
		sort.Strings(out)
		return out
	}
	return nil
}

// Text is the human-readable message extracted from the body, or "" when
// the body carried none.
func (e *APIError) Text() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		msg := strings.Join(e.Fields[k], " ")
		if nonFieldKeys[k] {
			parts = append(parts, msg)
			continue
		}
		parts = append(parts, k+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// Message is Text, falling back to the HTTP status text.
func (e *APIError) Message() string {
	if t := e.Text(); t != "" {
		return t
	}
	return http.StatusText(e.StatusCode)
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message())
}

// Is lets callers match status classes with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrValidation:
		return e.StatusCode == http.StatusBadRequest
	}
	return false
}

// ErrorMessage renders err as a single line for an inline error banner.
// fallback is used when the service gave no readable message.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if t := apiErr.Text(); t != "" {
			return t
		}
		return fallback
	}
	if errors.Is(err, ErrUnavailable) {
		return "Service unavailable, try again later"
	}
	return fallback
}
