package proxy

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"catalog-crawler-go/internal/config"
)

// StaticProvider builds the endpoint set from configuration: one gateway host
// per region sharing the vendor credentials, optionally extended by a free-form
// list or file of `REGION|proxy-url` entries.
type StaticProvider struct {
	Username string
	Password string
	Port     int
	Hosts    map[string]string
	List     string
	File     string
}

func NewStaticFromConfig() *StaticProvider {
	cfg := config.AppConfig
	hosts := map[string]string{}
	if h := strings.TrimSpace(cfg.ProxyHostUS); h != "" {
		hosts["US"] = h
	}
	if h := strings.TrimSpace(cfg.ProxyHostIN); h != "" {
		hosts["IN"] = h
	}
	return &StaticProvider{
		Username: strings.TrimSpace(cfg.ProxyUsername),
		Password: cfg.ProxyPassword,
		Port:     cfg.ProxyPort,
		Hosts:    hosts,
		List:     strings.TrimSpace(cfg.ProxyList),
		File:     strings.TrimSpace(cfg.ProxyFile),
	}
}

func (p *StaticProvider) Name() ProviderName {
	return ProviderStatic
}

func (p *StaticProvider) Endpoints(ctx context.Context) ([]Endpoint, error) {
	out := make([]Endpoint, 0, len(p.Hosts)+4)
	for region, host := range p.Hosts {
		out = append(out, Endpoint{
			Region:   region,
			Host:     host,
			Port:     p.Port,
			Username: p.Username,
			Password: p.Password,
			Protocol: "http",
		})
	}

	raw, err := p.loadEntries()
	if err != nil {
		return nil, err
	}
	for _, s := range raw {
		ep, ok := parseEndpointEntry(s)
		if !ok {
			continue
		}
		if ep.Username == "" {
			ep.Username = p.Username
			ep.Password = p.Password
		}
		out = append(out, ep)
	}

	if len(out) == 0 {
		return nil, errors.New("no proxy endpoints configured: set PROXY_HOST_US, PROXY_LIST or PROXY_FILE")
	}
	return out, nil
}

func (p *StaticProvider) loadEntries() ([]string, error) {
	if p.List != "" {
		return splitEntryList(p.List), nil
	}
	if p.File == "" {
		return nil, nil
	}
	f, err := os.Open(p.File)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, splitEntryList(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func splitEntryList(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, ";", ",")
	s = strings.ReplaceAll(s, "\n", ",")
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// parseEndpointEntry accepts `REGION|url` or a bare proxy URL (region defaults
// to US). The url part may omit the scheme.
func parseEndpointEntry(s string) (Endpoint, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Endpoint{}, false
	}

	region := DefaultRegion
	if i := strings.Index(s, "|"); i > 0 {
		region = NormalizeRegion(s[:i])
		s = strings.TrimSpace(s[i+1:])
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		u, err = url.Parse("http://" + s)
		if err != nil || u.Host == "" {
			return Endpoint{}, false
		}
	}

	host := u.Host
	if strings.Contains(host, "@") {
		if v, err := url.Parse("http://" + host); err == nil && v.Host != "" {
			u.User = v.User
			host = v.Host
		}
	}

	h, portStr, err := net.SplitHostPort(host)
	if err != nil {
		return Endpoint{}, false
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Endpoint{}, false
	}

	ep := Endpoint{
		Region:   region,
		Host:     h,
		Port:     port,
		Protocol: u.Scheme,
	}
	if ep.Protocol == "" {
		ep.Protocol = "http"
	}
	if u.User != nil {
		ep.Username = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			ep.Password = pw
		}
	}
	return ep, true
}
