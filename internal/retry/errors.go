package retry

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// StatusError reports an HTTP response with a non-success status code.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.Code)
}

// StatusCode returns the HTTP status code.
func (e *StatusError) StatusCode() int {
	return e.Code
}

// statusCoder is implemented by errors carrying an HTTP status code,
// including the Anthropic and OpenAI SDK error types.
type statusCoder interface {
	StatusCode() int
}

// IsTransient reports whether an error is worth retrying:
// rate limits (429), server errors (5xx), network timeouts,
// connection resets, and temporary DNS failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		return isTransientStatusCode(sc.StatusCode())
	}

	return isTransientNetworkError(err)
}

func isTransientStatusCode(code int) bool {
	if code == 429 {
		return true
	}
	return code >= 500 && code < 600
}

func isTransientNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && isTransientNetworkError(urlErr.Err) {
			return true
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary()
	}

	// Fallback on message patterns for errors the typed checks miss.
	errMsg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection reset",
		"connection refused",
		"temporary failure",
		"service unavailable",
		"too many requests",
		"rate limit",
		"bad gateway",
		"gateway timeout",
	}
	for _, pattern := range transientPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}
