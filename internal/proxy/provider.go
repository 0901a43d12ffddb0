package proxy

import (
	"context"
	"fmt"
)

// Provider resolves the configured proxy vendor into concrete endpoints.
// Static configuration is the only vendor today; the indirection exists so a
// rotating-gateway API can slot in without touching pool or retrier code.
type Provider interface {
	Name() ProviderName
	Endpoints(ctx context.Context) ([]Endpoint, error)
}

func NewProvider(name string) (Provider, error) {
	switch ProviderName(name) {
	case ProviderStatic, "":
		return NewStaticFromConfig(), nil
	default:
		return nil, fmt.Errorf("unknown proxy provider: %s", name)
	}
}

// PoolFromConfig resolves the configured provider into a ready Pool.
func PoolFromConfig(ctx context.Context) (*Pool, error) {
	provider := NewStaticFromConfig()
	endpoints, err := provider.Endpoints(ctx)
	if err != nil {
		return nil, err
	}
	return NewPool(endpoints), nil
}
