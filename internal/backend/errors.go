package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// NetworkError is a transport-level failure: connection refused, DNS,
// broken pipe.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError is a request that exceeded the client timeout or its
// context deadline.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string { return fmt.Sprintf("request timed out: %v", e.Err) }
func (e *TimeoutError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response. Message comes from the backend's JSON
// error body when one is present, otherwise it is synthesized from the
// status line.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string { return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message) }

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == http.StatusUnauthorized
}

// classifyTransport wraps a transport error into the taxonomy.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Err: err}
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &NetworkError{Err: err}
}
