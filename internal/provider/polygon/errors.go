package polygon

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAuthentication is returned by NewClient when no API key is supplied.
var ErrAuthentication = errors.New("polygon: API key not set; pass it explicitly or set POLYGON_API_KEY")

// maxErrorBody bounds how much of a response body is kept in error messages.
const maxErrorBody = 512

// RateLimitError is returned when the API answers 429. It is never retried by the client.
type RateLimitError struct {
	RetryAfter string // raw Retry-After header, empty when absent
	Body       []byte
}

func (e *RateLimitError) Error() string {
	msg := "polygon: rate limit exceeded (HTTP 429)"
	if e.RetryAfter != "" {
		msg += ", retry after " + e.RetryAfter
	}
	return msg
}

// HTTPError is returned for any other non-2xx response.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("polygon: API status %d: %s", e.StatusCode, truncate(e.Body))
}

// DecodeError is returned when a 2xx body is not valid JSON for the target type.
type DecodeError struct {
	Err  error
	Body []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("polygon: decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// PageLimitError is returned when a series still has a next_url after MaxPages pages.
type PageLimitError struct {
	Ticker   string
	MaxPages int
	NextURL  string
}

func (e *PageLimitError) Error() string {
	return fmt.Sprintf("polygon: %s: next_url still present after %d pages", e.Ticker, e.MaxPages)
}

// ValidationError reports a malformed SeriesRequest.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("polygon: invalid %s: %s", e.Field, e.Reason)
}

// IsRateLimit reports whether err is, or wraps, a RateLimitError.
func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
