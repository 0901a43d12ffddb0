package proxy

import "errors"

var ErrNoEndpoints = errors.New("proxy pool is empty")

const DefaultRegion = "US"

// Pool maps region codes to proxy endpoints. Lookup is pure: unknown regions
// fall back to the default region rather than failing, because having some
// proxy matters more than strict region validation. Whether any proxy is
// configured at all is a startup concern, not a per-lookup one.
type Pool struct {
	byRegion map[string][]Endpoint
	fallback []Endpoint
}

func NewPool(endpoints []Endpoint) *Pool {
	p := &Pool{byRegion: make(map[string][]Endpoint, 4)}
	for _, e := range endpoints {
		if e.IsZero() {
			continue
		}
		region := NormalizeRegion(e.Region)
		if region == "" {
			region = DefaultRegion
		}
		e.Region = region
		p.byRegion[region] = append(p.byRegion[region], e)
	}
	p.fallback = p.byRegion[DefaultRegion]
	if len(p.fallback) == 0 {
		for _, eps := range p.byRegion {
			p.fallback = eps
			break
		}
	}
	return p
}

func (p *Pool) Empty() bool {
	return p == nil || len(p.byRegion) == 0
}

// Endpoint returns the first configured endpoint for region, falling back to
// the default region for unrecognized codes. The second return is false only
// when the pool holds no endpoints at all.
func (p *Pool) Endpoint(region string) (Endpoint, bool) {
	return p.ForAttempt(region, 1)
}

// ForAttempt selects the endpoint for a given retry attempt (1-based).
// With one endpoint per region this is deterministic re-selection; with
// several it cycles so each attempt gets a differently-perceived identity.
func (p *Pool) ForAttempt(region string, attempt int) (Endpoint, bool) {
	if p.Empty() {
		return Endpoint{}, false
	}
	eps := p.byRegion[NormalizeRegion(region)]
	if len(eps) == 0 {
		eps = p.fallback
	}
	if len(eps) == 0 {
		return Endpoint{}, false
	}
	if attempt < 1 {
		attempt = 1
	}
	return eps[(attempt-1)%len(eps)], true
}

// Regions lists the region codes with at least one endpoint.
func (p *Pool) Regions() []string {
	if p.Empty() {
		return nil
	}
	out := make([]string, 0, len(p.byRegion))
	for r := range p.byRegion {
		out = append(out, r)
	}
	return out
}
