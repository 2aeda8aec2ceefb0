package release

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// RateLimitError indicates the GitHub API rate limit was hit.
type RateLimitError struct {
	StatusCode int
	Status     string
	Remaining  *int
}

func (e *RateLimitError) Error() string {
	remaining := "unknown"
	if e.Remaining != nil {
		remaining = strconv.Itoa(*e.Remaining)
	}
	return fmt.Sprintf("github api rate limit exceeded (%s, remaining=%s)", e.Status, remaining)
}

// IsRateLimitError reports whether err represents a rate-limit condition.
func IsRateLimitError(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// StatusError is a non-2xx response that is not a rate limit.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response from %s: %s", e.URL, e.Status)
}

// classifyResponse returns nil for 2xx responses and a typed error otherwise
func classifyResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	// Unauthenticated exhaustion comes back as 403; the header confirms it.
	if resp.StatusCode == http.StatusForbidden {
		if remaining, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("X-RateLimit-Remaining"))); err == nil && remaining == 0 {
			return &RateLimitError{StatusCode: resp.StatusCode, Status: resp.Status, Remaining: &remaining}
		}
	}
	return &StatusError{URL: resp.Request.URL.String(), StatusCode: resp.StatusCode, Status: resp.Status}
}
