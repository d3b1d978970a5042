package report

import (
	"fmt"
	"sort"
	"sync"

	"github.com/de-tools/marketing-atlas/pkg/services/providers"
)

// Registry maps provider keys to provider instances. The builder resolves
// specs through it and never depends on a concrete provider type.
type Registry interface {
	// Register adds a provider under the given key.
	Register(name string, provider providers.Provider) error
	// Get resolves a provider by key. An unknown key is a configuration error.
	Get(name string) (providers.Provider, error)
	// ListProviders returns the registered keys, sorted.
	ListProviders() []string
}

type registry struct {
	mu        sync.RWMutex
	providers map[string]providers.Provider
}

func NewRegistry() Registry {
	return &registry{
		providers: make(map[string]providers.Provider),
	}
}

func (r *registry) Register(name string, provider providers.Provider) error {
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %q is already registered", name)
	}

	r.providers[name] = provider
	return nil
}

func (r *registry) Get(name string) (providers.Provider, error) {
	r.mu.RLock()
	provider, exists := r.providers[name]
	r.mu.RUnlock()

	if !exists {
		return nil, &ConfigError{Reason: fmt.Sprintf("provider %q is not registered", name)}
	}
	return provider, nil
}

func (r *registry) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
