package crawler

import (
	"context"
	"errors"
	"net/http"
)

// ShouldRetryError reports whether another attempt could change the outcome.
// Fatal errors and context endings never retry; everything else, blocks
// included, is worth a fresh identity.
func ShouldRetryError(err error) bool {
	switch KindOf(err) {
	case "", ErrorKindFatal, ErrorKindCanceled:
		return false
	case ErrorKindTimeout:
		// network timeouts retry, an expired request context does not
		return !errors.Is(err, context.DeadlineExceeded)
	default:
		return true
	}
}

// ShouldRetryStatus reports whether a bare status code suggests retrying.
func ShouldRetryStatus(code int) bool {
	switch {
	case code == http.StatusTooManyRequests:
		return true
	case code >= 500 && code <= 599:
		return true
	default:
		return false
	}
}
