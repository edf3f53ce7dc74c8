package ingest

import (
	"fmt"
	"time"
)

// HTTPError is a non-2xx response from the remote store.
type HTTPError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http error: status=%d url=%s message=%s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("http error: status=%d url=%s", e.StatusCode, e.URL)
}

// RateLimitError indicates 429 responses and may include a Retry-After.
type RateLimitError struct {
	*HTTPError
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: wait about %ds before retrying: %s", int(e.RetryAfter.Seconds()), e.HTTPError.Error())
	}
	return fmt.Sprintf("rate limited: %s", e.HTTPError.Error())
}

func (e *RateLimitError) Unwrap() error { return e.HTTPError }

// NotFoundError indicates the file id does not exist or is not shared.
type NotFoundError struct {
	*HTTPError
	FileID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file %q not found: %s", e.FileID, e.HTTPError.Error())
}

func (e *NotFoundError) Unwrap() error { return e.HTTPError }

// UnreachableError indicates the remote host could not be contacted.
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	if e == nil {
		return "unreachable"
	}
	if e.Host != "" {
		return fmt.Sprintf("endpoint unreachable at %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("endpoint unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }
