package crawler

import (
	"fmt"
	"strings"
)

const maxBodySnippet = 1024

// NewHTTPStatusError converts a non-2xx response into a kinded error. The
// body runs through the block detector: a blocking signal (403 or an
// indicator substring) yields a blocked error, anything else is transient.
func NewHTTPStatusError(retailer, url string, statusCode int, body string) error {
	kind := ErrorKindTransient
	if Classify(statusCode, body) == ClassBlocked {
		kind = ErrorKindBlocked
	}
	return Error{
		Kind:     kind,
		Retailer: retailer,
		URL:      url,
		Msg:      statusMessage(statusCode, body),
	}
}

// statusMessage renders "http status=N" with a bounded body excerpt, enough
// to recognize vendor block pages in logs without flooding them.
func statusMessage(statusCode int, body string) string {
	msg := fmt.Sprintf("http status=%d", statusCode)
	snippet := strings.TrimSpace(body)
	if len(snippet) > maxBodySnippet {
		snippet = snippet[:maxBodySnippet]
	}
	if snippet != "" {
		msg += " body=" + snippet
	}
	return msg
}
