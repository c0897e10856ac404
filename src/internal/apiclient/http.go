package apiclient

import (
	"net/http"
	"time"
)

// DefaultTimeout is used when no HTTP client is supplied.
const DefaultTimeout = 10 * time.Second

// HTTPClient interface for dependency injection in tests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns a standard HTTP client with the given timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewHTTPClient(timeout time.Duration) HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
