// Package jsparse pulls server-rendered state out of retailer product pages.
// Browser-backed crawlers receive full HTML; the catalog data usually lives
// in an inline script assigning a large object to a window global. Scripts
// are located with an HTML tokenizer and evaluated in a sandboxed JS runtime
// rather than scraped with regexes, so trailing code after the assignment and
// non-JSON literals (single quotes, unquoted keys) do not break extraction.
package jsparse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/net/html"
)

// ExtractState evaluates the first inline script mentioning global and
// returns the value assigned to window.<global> as raw JSON.
func ExtractState(htmlBody, global string) (json.RawMessage, error) {
	if strings.TrimSpace(global) == "" {
		return nil, fmt.Errorf("global name is empty")
	}
	script, err := findScript(htmlBody, global)
	if err != nil {
		return nil, err
	}
	return evalState(script, global)
}

// UnmarshalState extracts window.<global> and decodes it into out.
func UnmarshalState(htmlBody, global string, out interface{}) error {
	raw, err := ExtractState(htmlBody, global)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", global, err)
	}
	return nil
}

// findScript tokenizes the page and returns the first script body that
// mentions global. Tokenizing instead of parsing keeps memory flat on the
// multi-megabyte pages some retailers serve.
func findScript(htmlBody, global string) (string, error) {
	tz := html.NewTokenizer(strings.NewReader(htmlBody))
	for {
		switch tz.Next() {
		case html.ErrorToken:
			return "", fmt.Errorf("no inline script mentions %s", global)
		case html.StartTagToken:
			name, _ := tz.TagName()
			if string(name) != "script" {
				continue
			}
			if tz.Next() != html.TextToken {
				continue
			}
			text := string(tz.Text())
			if strings.Contains(text, global) {
				return text, nil
			}
		}
	}
}

// evalState runs the script with a stub window/document and serializes the
// captured global with the runtime's own JSON.stringify. Scripts also touch
// navigator and location on some sites, so minimal stubs exist for those too.
func evalState(script, global string) (json.RawMessage, error) {
	rt := goja.New()
	window := rt.NewObject()
	for _, name := range []string{"window", "self", "globalThis"} {
		if err := rt.Set(name, window); err != nil {
			return nil, fmt.Errorf("set %s: %w", name, err)
		}
	}
	if err := rt.Set("document", rt.NewObject()); err != nil {
		return nil, fmt.Errorf("set document: %w", err)
	}
	if err := rt.Set("navigator", rt.NewObject()); err != nil {
		return nil, fmt.Errorf("set navigator: %w", err)
	}
	if err := rt.Set("location", rt.NewObject()); err != nil {
		return nil, fmt.Errorf("set location: %w", err)
	}

	if _, err := rt.RunString(script); err != nil {
		return nil, fmt.Errorf("evaluate state script: %w", err)
	}

	val := window.Get(global)
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		// Some bundles assign the bare identifier instead of window.X.
		val = rt.Get(global)
	}
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil, fmt.Errorf("script ran but %s was never assigned", global)
	}

	stringify, ok := goja.AssertFunction(rt.Get("JSON").ToObject(rt).Get("stringify"))
	if !ok {
		return nil, fmt.Errorf("JSON.stringify unavailable")
	}
	out, err := stringify(goja.Undefined(), val)
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", global, err)
	}
	s, ok := out.Export().(string)
	if !ok || s == "" {
		return nil, fmt.Errorf("%s did not serialize to JSON", global)
	}
	return json.RawMessage(s), nil
}
