// Package container provides the IoC container auto-wired bindings land in,
// plus the Service Provider system used to bootstrap an application.
//
// # Overview
//
// The container manages the instantiation and lifetime of an application's
// dependencies. It supports string-keyed factories, pre-built instances,
// aliases, extension (decoration), and typed bindings of a concrete
// metadata.Type to a contract under a name and a Lifetime.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot()       : safe to resolve everything after this
//  4. Serve requests
//
// # Bindings
//
//	// Transient: new instance every Make()
//	c.Bind("Foo", func(c *container.Container) any { return &Foo{} })
//
//	// Singleton: created once, reused
//	c.Singleton("cache", func(c *container.Container) any { return newCache() })
//
//	// Pre-built value
//	c.Instance("config", cfg)
//
//	// Alias
//	c.Alias("cache", "cacheManager")
//
// # Typed bindings
//
// Register is what the auto-wiring engine calls for every binding it
// decides on:
//
//	err := c.Register(cacheContract, redisCache, "", container.Singleton)
//	cache := c.Make(container.Key(cacheContract, ""))
//	all := c.All(cacheContract) // every concrete bound to the contract, in order
//
// Check runs the same validation as Register without storing the binding;
// the engine's dry runs use it.
//
// # Lifetimes
//
//   - Transient: new instance every Make()
//   - Singleton: one instance for the container
//   - PerThread: one instance per goroutine. Instances stay cached until
//     ReleaseThread runs on that goroutine; the router calls it after each
//     request, so under HTTP a per-thread binding lives for one request.
//   - custom   : any name registered with RegisterLifetime
//
// # Extend / Decorate
//
//	c.Extend("logger", func(instance any, c *container.Container) any {
//	    return &TimestampLogger{Inner: instance.(Logger)}
//	})
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    app.Singleton("mailer", func(c *container.Container) any { return newMailer() })
//	    return nil
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool   { return true }
//	func (p *HeavyProvider) Provides() []string { return []string{"heavy"} }
//
// A deferred provider is registered the first time one of its Provides()
// abstracts misses in Make.
package container
