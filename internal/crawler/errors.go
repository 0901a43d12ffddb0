package crawler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

type ErrorKind string

const (
	ErrorKindUnknown   ErrorKind = "unknown"
	ErrorKindBlocked   ErrorKind = "blocked"
	ErrorKindTransient ErrorKind = "transient"
	ErrorKindFatal     ErrorKind = "fatal"
	ErrorKindHTTP      ErrorKind = "http"
	ErrorKindCanceled  ErrorKind = "canceled"
	ErrorKindTimeout   ErrorKind = "timeout"
)

type Error struct {
	Kind     ErrorKind
	Retailer string
	URL      string
	Msg      string
	Err      error
}

func (e Error) Error() string {
	base := e.Msg
	if base == "" && e.Err != nil {
		base = e.Err.Error()
	}
	if base == "" {
		base = string(e.Kind)
	}
	if e.Retailer != "" && e.URL != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Retailer, base, e.URL)
	}
	if e.Retailer != "" {
		return fmt.Sprintf("%s: %s", e.Retailer, base)
	}
	return base
}

func (e Error) Unwrap() error { return e.Err }

// RetryExhaustedError wraps the final attempt's cause once the attempt budget
// is spent. The cause keeps its kind, so callers can tell an exhausted block
// from exhausted transient failures.
type RetryExhaustedError struct {
	Attempts int
	Cause    error
}

func (e RetryExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Cause)
}

func (e RetryExhaustedError) Unwrap() error { return e.Cause }

func NewBlockedError(retailer, url, reason string) error {
	return Error{
		Kind:     ErrorKindBlocked,
		Retailer: retailer,
		URL:      url,
		Msg:      fmt.Sprintf("request blocked: %s", reason),
	}
}

func NewFatalError(msg string, err error) error {
	return Error{Kind: ErrorKindFatal, Msg: msg, Err: err}
}

func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return ErrorKindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindTimeout
	}
	var ce Error
	if errors.As(err, &ce) && ce.Kind != "" {
		return ce.Kind
	}
	var re RetryExhaustedError
	if errors.As(err, &re) {
		return KindOf(re.Cause)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrorKindTimeout
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status=") {
		return ErrorKindHTTP
	}
	return ErrorKindUnknown
}

// IsBlocked reports whether err (or its cause chain) is an anti-bot block.
func IsBlocked(err error) bool {
	return KindOf(err) == ErrorKindBlocked
}

// IsExhausted reports whether err carries a spent retry budget.
func IsExhausted(err error) bool {
	var re RetryExhaustedError
	return errors.As(err, &re)
}

func MergeFailureKinds(dst map[string]int, src map[string]int) map[string]int {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]int, len(src))
	}
	for k, v := range src {
		dst[k] += v
	}
	return dst
}
