package crawler

import (
	"testing"
)

func TestClassify403AlwaysBlocked(t *testing.T) {
	for _, body := range []string{"", "ok", "<html>welcome</html>"} {
		if got := Classify(403, body); got != ClassBlocked {
			t.Fatalf("403 body=%q got=%s", body, got)
		}
	}
}

func TestClassifyIndicators(t *testing.T) {
	cases := []string{
		"please solve this CAPTCHA to continue",
		"checking your browser: challenge in progress",
		"Access Denied",
		"you have been blocked",
		"protected by DataDome",
		"we are unable to serve your request",
		"Your request has been blocked by datadome",
	}
	for _, body := range cases {
		if got := Classify(200, body); got != ClassBlocked {
			t.Fatalf("body=%q got=%s want blocked", body, got)
		}
	}
}

func TestClassifyOK(t *testing.T) {
	if got := Classify(200, `{"products":[]}`); got != ClassOK {
		t.Fatalf("clean 200 got=%s", got)
	}
	if got := Classify(204, ""); got != ClassOK {
		t.Fatalf("empty 204 got=%s", got)
	}
}

func TestClassifyUnknown(t *testing.T) {
	if got := Classify(500, "internal server error"); got != ClassUnknown {
		t.Fatalf("500 got=%s", got)
	}
	if got := Classify(404, "not found"); got != ClassUnknown {
		t.Fatalf("404 got=%s", got)
	}
	if got := Classify(0, ""); got != ClassUnknown {
		t.Fatalf("no status got=%s", got)
	}
}

func TestBlockReason(t *testing.T) {
	if got := BlockReason(403, ""); got != "http status=403" {
		t.Fatalf("403 reason=%q", got)
	}
	if got := BlockReason(200, "blocked by DataDome"); got != "blocked" {
		t.Fatalf("indicator reason=%q", got)
	}
	if got := BlockReason(200, "all good"); got != "" {
		t.Fatalf("clean reason=%q", got)
	}
}
