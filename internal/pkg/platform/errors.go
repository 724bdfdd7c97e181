package platform

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AuthError means credentials are bad or missing. Fatal, never retried.
type AuthError struct {
	Platform string
	Reason   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s auth error: %s", e.Platform, e.Reason)
}

// UpstreamHTTPError carries a >=400 response from a platform API or page.
type UpstreamHTTPError struct {
	Platform string
	Status   int
	Body     string
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("%s upstream HTTP %d: %s", e.Platform, e.Status, truncate(e.Body, 200))
}

// ParseError means the API/page shape was not what the client expects.
// Fatal for that identifier only; it signals a platform-side change, not
// a global outage.
type ParseError struct {
	Platform string
	Detail   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parse error: %s", e.Platform, e.Detail)
}

// NotFoundError means the platform confirmed the identifier does not
// exist. Terminal.
type NotFoundError struct {
	Platform   string
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s profile not found: %s", e.Platform, e.Identifier)
}

// IsRateLimitSignal reports whether err is an HTTP 429/403 (or an
// equivalent scraper block), which runners interpret as "stop this batch
// now, resume next scheduled run".
func IsRateLimitSignal(err error) bool {
	var httpErr *UpstreamHTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status == http.StatusTooManyRequests || httpErr.Status == http.StatusForbidden
	}
	return false
}

// IsNotFound reports whether err is a terminal not-found result.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

var transientMarkers = []string{
	"read-only transaction",
	"sqlstate",
	"temporarily unavailable",
}

// IsTransientUpstream reports whether an error body indicates a
// condition worth a bounded retry.
func IsTransientUpstream(body string) bool {
	lower := strings.ToLower(body)
	for _, marker := range transientMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
