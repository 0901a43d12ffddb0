package proxy

import (
	"fmt"
	"net/url"
	"strings"
)

type ProviderName string

const (
	ProviderStatic ProviderName = "static"
)

// Endpoint is one upstream proxy gateway, keyed by the region whose exit
// nodes it fronts. Endpoints are immutable after load.
type Endpoint struct {
	Region   string
	Host     string
	Port     int
	Username string
	Password string
	Protocol string
}

func (e Endpoint) IsZero() bool {
	return e.Host == ""
}

// HTTPURL renders the endpoint as a proxy URL with embedded credentials,
// suitable for http.Transport proxy functions.
func (e Endpoint) HTTPURL() string {
	scheme := e.Protocol
	if scheme == "" {
		scheme = "http"
	}
	u := &url.URL{
		Scheme: scheme,
		Host:   fmt.Sprintf("%s:%d", e.Host, e.Port),
	}
	if e.Username != "" || e.Password != "" {
		u.User = url.UserPassword(e.Username, e.Password)
	}
	return u.String()
}

// Server renders the credential-free form Chromium expects for
// --proxy-server / playwright launch proxy settings.
func (e Endpoint) Server() string {
	scheme := e.Protocol
	if scheme == "" {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, e.Host, e.Port)
}

func NormalizeRegion(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
