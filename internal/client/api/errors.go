package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNoRefreshToken = errors.New("no refresh token")
)

// HTTPError is returned for every non-2xx response.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.Path, e.Status, e.Message())
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 and 403 responses.
func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Message extracts a human-readable reason from the response body. The
// backend answers with {"detail": ...}, {"error": ...}, {"message": ...} or
// a field-to-messages map for validation failures.
func (e *HTTPError) Message() string {
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return http.StatusText(e.StatusCode)
	}

	var obj map[string]any
	if err := json.Unmarshal(e.Body, &obj); err != nil {
		return body
	}
	for _, k := range []string{"detail", "error", "message"} {
		if s := flatten(obj[k]); s != "" {
			return s
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if s := flatten(obj[k]); s != "" {
			parts = append(parts, k+": "+s)
		}
	}
	if len(parts) == 0 {
		return body
	}
	return strings.Join(parts, "; ")
}

func flatten(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, x := range t {
			if s := flatten(x); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// StatusCode reports the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// DecodeError reports a response body that did not match its schema.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
