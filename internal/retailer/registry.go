// Package retailer maps retailer names to their crawler constructors.
// Concrete retailers register themselves from init, so adding one means
// adding a package and a blank import in main.
package retailer

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"catalog-crawler-go/internal/crawler"
)

type Factory func() crawler.Runner

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

func Register(name string, aliases []string, factory Factory) {
	if factory == nil {
		panic("retailer: factory is nil")
	}
	keys := append([]string{name}, aliases...)
	mu.Lock()
	defer mu.Unlock()
	for _, k := range keys {
		n := normalize(k)
		if n == "" {
			continue
		}
		if _, exists := factories[n]; exists {
			panic(fmt.Sprintf("retailer: duplicate register: %s", n))
		}
		factories[n] = factory
	}
}

func New(name string) (crawler.Runner, error) {
	n := normalize(name)
	mu.RLock()
	f := factories[n]
	mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("unknown retailer: %s (available: %s)", name, strings.Join(Names(), ", "))
	}
	return f(), nil
}

func Exists(name string) bool {
	n := normalize(name)
	mu.RLock()
	_, ok := factories[n]
	mu.RUnlock()
	return ok
}

func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
