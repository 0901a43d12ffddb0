package proxy

import (
	"net/http"
	"net/url"
	"sync/atomic"
)

// Switcher swaps the active proxy URL under a stable http.Transport proxy
// function, so a retrier can re-point an existing client between attempts
// without rebuilding the transport. A nil current URL means direct.
type Switcher struct {
	current atomic.Pointer[url.URL]
}

func NewSwitcher() *Switcher {
	return &Switcher{}
}

func (s *Switcher) Set(raw string) error {
	if raw == "" {
		s.current.Store(nil)
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	s.current.Store(u)
	return nil
}

func (s *Switcher) SetEndpoint(ep Endpoint) error {
	if ep.IsZero() {
		s.current.Store(nil)
		return nil
	}
	return s.Set(ep.HTTPURL())
}

// ProxyFunc satisfies http.Transport.Proxy.
func (s *Switcher) ProxyFunc(req *http.Request) (*url.URL, error) {
	return s.current.Load(), nil
}
