package crawler

import (
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"

	"catalog-crawler-go/internal/config"
	"catalog-crawler-go/internal/proxy"
)

// NewHTTPClient builds a resty client whose proxy follows the switcher, so a
// retrier can re-point it between attempts without rebuilding the transport.
func NewHTTPClient(switcher *proxy.Switcher) *resty.Client {
	timeout := time.Duration(config.AppConfig.HTTPTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        32,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     30 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	if switcher != nil {
		transport.Proxy = switcher.ProxyFunc
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
	if jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}); err == nil {
		httpClient.Jar = jar
	}

	client := resty.NewWithClient(httpClient)
	client.SetHeaders(map[string]string{
		"accept":          "application/json, text/html;q=0.9, */*;q=0.8",
		"accept-language": "en-US,en;q=0.9",
		"user-agent":      config.AppConfig.UserAgent,
	})
	return client
}
