package container

import "fmt"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Register is called when the provider is added (or, for deferred providers,
// when one of its abstracts is first resolved). Boot is called after all
// eager providers have been registered, making it safe to resolve other
// bindings inside Boot().
//
//	type CacheProvider struct{ container.BaseProvider }
//
//	func (p *CacheProvider) Register(app *container.Container) error {
//	    app.Singleton("cache", func(c *container.Container) any { return newCache() })
//	    return nil
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here: use Boot() for that.
	Register(app *Container) error

	// Boot is called after all providers are registered.
	Boot(app *Container) error

	// Provides returns the abstracts a deferred provider registers.
	Provides() []string

	// IsDeferred returns true if this provider should be loaded lazily,
	// only when one of its Provides() abstracts is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred().
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred (lazy) providers.
type ProviderRegistry struct {
	app        *Container
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // abstract → provider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	r := &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
	app.OnMissing(r.loadDeferred)
	return r
}

// Register adds a provider and calls its Register() method (unless deferred).
// A provider registered after Boot() is booted immediately.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, abstract := range provider.Provides() {
			r.deferred[abstract] = provider
		}
		return nil
	}

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("register %T: %w", provider, err)
	}
	r.eager = append(r.eager, provider)

	if r.booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("boot %T: %w", provider, err)
		}
	}
	return nil
}

// loadDeferred registers (and, after Boot, boots) the deferred provider of
// abstract. It panics if the provider fails, since it runs inside Make.
func (r *ProviderRegistry) loadDeferred(abstract string) bool {
	provider, ok := r.deferred[abstract]
	if !ok {
		return false
	}
	for _, abs := range provider.Provides() {
		delete(r.deferred, abs)
	}
	if err := provider.Register(r.app); err != nil {
		panic(fmt.Sprintf("container: deferred register %T: %v", provider, err))
	}
	if r.booted {
		if err := provider.Boot(r.app); err != nil {
			panic(fmt.Sprintf("container: deferred boot %T: %v", provider, err))
		}
	}
	return true
}

// Boot calls Boot() on all eager providers, stopping at the first error.
// Calling it again is a no-op.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.eager {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("boot %T: %w", provider, err)
		}
	}
	return nil
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }
