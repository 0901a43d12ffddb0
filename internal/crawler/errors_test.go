package crawler

import (
	"context"
	"errors"
	"testing"
)

func TestKindOf(t *testing.T) {
	{
		if got := KindOf(context.Canceled); got != ErrorKindCanceled {
			t.Fatalf("canceled got=%s", got)
		}
	}
	{
		if got := KindOf(context.DeadlineExceeded); got != ErrorKindTimeout {
			t.Fatalf("deadline got=%s", got)
		}
	}
	{
		err := Error{Kind: ErrorKindFatal, Retailer: "shopify", Msg: "bad config"}
		if got := KindOf(err); got != ErrorKindFatal {
			t.Fatalf("custom kind got=%s", got)
		}
	}
	{
		err := NewBlockedError("adidas", "https://example.com", "datadome")
		if got := KindOf(err); got != ErrorKindBlocked {
			t.Fatalf("blocked got=%s", got)
		}
	}
	{
		err := NewHTTPStatusError("walmart", "u", 500, "oops")
		if got := KindOf(err); got != ErrorKindTransient {
			t.Fatalf("500 got=%s", got)
		}
	}
	{
		err := NewHTTPStatusError("walmart", "u", 403, "")
		if got := KindOf(err); got != ErrorKindBlocked {
			t.Fatalf("403 got=%s", got)
		}
	}
	{
		if got := KindOf(errors.New("something else")); got != ErrorKindUnknown {
			t.Fatalf("unknown got=%s", got)
		}
	}
}

func TestKindOfUnwrapsExhaustion(t *testing.T) {
	cause := NewBlockedError("adidas", "u", "captcha")
	err := RetryExhaustedError{Attempts: 4, Cause: cause}
	if got := KindOf(err); got != ErrorKindBlocked {
		t.Fatalf("exhausted blocked got=%s", got)
	}
	if !IsBlocked(err) {
		t.Fatalf("IsBlocked=false for exhausted block")
	}
	if !IsExhausted(err) {
		t.Fatalf("IsExhausted=false")
	}
	if IsExhausted(cause) {
		t.Fatalf("IsExhausted=true for bare cause")
	}
}

func TestExhaustedErrorUnwrap(t *testing.T) {
	cause := Error{Kind: ErrorKindTransient, Msg: "http status=500"}
	err := error(RetryExhaustedError{Attempts: 3, Cause: cause})
	var ce Error
	if !errors.As(err, &ce) || ce.Kind != ErrorKindTransient {
		t.Fatalf("unwrap cause failed: %v", err)
	}
}

func TestShouldRetryError(t *testing.T) {
	if ShouldRetryError(nil) {
		t.Fatalf("nil should not retry")
	}
	if ShouldRetryError(context.Canceled) {
		t.Fatalf("canceled should not retry")
	}
	if ShouldRetryError(NewFatalError("missing key", nil)) {
		t.Fatalf("fatal should not retry")
	}
	if !ShouldRetryError(NewBlockedError("x", "u", "captcha")) {
		t.Fatalf("blocked should retry")
	}
	if !ShouldRetryError(NewHTTPStatusError("x", "u", 502, "")) {
		t.Fatalf("transient should retry")
	}
}

func TestMergeFailureKinds(t *testing.T) {
	m := MergeFailureKinds(nil, map[string]int{"blocked": 2})
	m = MergeFailureKinds(m, map[string]int{"blocked": 1, "transient": 3})
	if m["blocked"] != 3 || m["transient"] != 3 {
		t.Fatalf("merge got=%v", m)
	}
	if got := MergeFailureKinds(m, nil); len(got) != 2 {
		t.Fatalf("nil src changed map: %v", got)
	}
}
