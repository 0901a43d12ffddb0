package crawler

import (
	"net/http"
	"strings"
)

// Classification is the outcome of inspecting a completed request or rendered
// page for anti-bot interference.
type Classification string

const (
	ClassOK      Classification = "ok"
	ClassBlocked Classification = "blocked"
	ClassUnknown Classification = "unknown"
)

// blockIndicators are matched case-insensitively against response bodies.
// Every crawler feeds the same set, whether the body came from a plain HTTP
// client or a rendered browser page.
var blockIndicators = []string{
	"captcha",
	"challenge",
	"access denied",
	"blocked",
	"datadome",
	"unable to serve",
}

// Classify decides whether a response was blocked by the target site's
// defenses. A status of 0 means no status is available (e.g. the navigation
// never completed). Empty bodies are fine and classify on status alone.
func Classify(status int, body string) Classification {
	if status == http.StatusForbidden {
		return ClassBlocked
	}
	if reason := matchIndicator(body); reason != "" {
		return ClassBlocked
	}
	if status >= 200 && status < 300 {
		return ClassOK
	}
	return ClassUnknown
}

// BlockReason returns the matched indicator or status marker when Classify
// would report blocked, and "" otherwise.
func BlockReason(status int, body string) string {
	if status == http.StatusForbidden {
		return "http status=403"
	}
	return matchIndicator(body)
}

func matchIndicator(body string) string {
	if body == "" {
		return ""
	}
	lower := strings.ToLower(body)
	for _, ind := range blockIndicators {
		if strings.Contains(lower, ind) {
			return ind
		}
	}
	return ""
}
