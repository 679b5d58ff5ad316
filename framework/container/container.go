package container

import (
	"fmt"
	"slices"
	"sync"

	"github.com/km-arc/go-autowire/framework/metadata"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory is a function that builds a concrete value from the container.
type Factory func(c *Container) any

// binding holds a registered factory and its lifetime.
type binding struct {
	factory  Factory
	lifetime Lifetime
}

// extender wraps an already-resolved instance with decorator logic.
type extender func(instance any, c *Container) any

// Entry is one typed binding stored through Register, in registration order.
type Entry struct {
	Contract *metadata.Type
	Concrete *metadata.Type
	Name     string
	Lifetime Lifetime
	// Abstract is the unique key the binding's factory is stored under.
	Abstract string
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container the auto-wiring engine binds into.
//
// It supports:
//   - Bind / Singleton / Instance / Alias
//   - Register: typed (contract, concrete, name, lifetime) bindings
//   - Make / MakeE / All / Resolve (generic)
//   - Extend (decorate / wrap resolved instances)
//   - Custom lifetimes through LifetimeManager
//   - Resolved event callbacks
type Container struct {
	mu sync.RWMutex

	// abstract → binding
	bindings map[string]*binding

	// abstract → resolved singleton instance
	instances map[string]any

	// alias → abstract (canonical key)
	aliases map[string]string

	// abstract → extender funcs
	extenders map[string][]extender

	// tag → []abstract
	tags map[string][]string

	// typed bindings, in registration order
	entries []Entry

	// custom lifetime name → manager
	lifetimes map[Lifetime]LifetimeManager
	perThread *perThread

	// resolved callbacks: []func(abstract, instance)
	afterResolving []func(string, any)

	// called when Make misses; returns true if it registered the abstract
	missing func(abstract string) bool
}

// New creates an empty container.
func New() *Container {
	c := &Container{
		bindings:  make(map[string]*binding),
		instances: make(map[string]any),
		aliases:   make(map[string]string),
		extenders: make(map[string][]extender),
		tags:      make(map[string][]string),
		lifetimes: make(map[Lifetime]LifetimeManager),
		perThread: newPerThread(),
	}
	// The container resolves itself.
	c.Instance("container", c)
	return c
}

// Key returns the abstract a typed binding of contract under name is
// resolvable by. The unnamed binding uses the contract's canonical string.
//
//	c.Make(container.Key(cacheContract, ""))
//	c.Make(container.Key(cacheContract, "redis"))
func Key(contract *metadata.Type, name string) string {
	if name == "" {
		return contract.String()
	}
	return contract.String() + "@" + name
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient (new instance each Make) factory.
//
//	c.Bind("UserRepository", func(c *container.Container) any {
//	    return &SQLUserRepository{}
//	})
func (c *Container) Bind(abstract string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bind(abstract, factory, Transient)
}

// Singleton registers a factory whose result is cached after first resolution.
func (c *Container) Singleton(abstract string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bind(abstract, factory, Singleton)
}

// Instance registers a pre-built value as a singleton.
//
//	c.Instance("config", cfg)
func (c *Container) Instance(abstract string, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	c.instances[key] = instance
}

// bind is the internal registration helper (must hold mu.Lock).
func (c *Container) bind(abstract string, factory Factory, lifetime Lifetime) {
	key := c.canonical(abstract)
	// Drop a cached singleton so the new factory is used.
	delete(c.instances, key)
	c.bindings[key] = &binding{factory: factory, lifetime: lifetime}
}

// Register stores a typed binding: concrete is built for contract under
// name with the given lifetime. It is the capability the auto-wiring
// engine binds through.
//
// Every call adds a new binding; the last one registered for a
// (contract, name) pair is what Make(Key(contract, name)) returns, and
// All(contract) returns all of them in registration order.
//
// Register fails with *RejectedError for nil types, a contract that is not
// an interface, an interface concrete, or a lifetime the container does not
// know.
func (c *Container) Register(contract, concrete *metadata.Type, name string, lifetime Lifetime) error {
	if err := c.Check(contract, concrete, name, lifetime); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := Key(contract, name)
	unique := fmt.Sprintf("%s#%d", key, len(c.entries))

	c.bind(unique, constructorFactory(concrete), lifetime)
	c.aliases[key] = unique
	tag := contract.String()
	c.tags[tag] = append(c.tags[tag], unique)
	c.entries = append(c.entries, Entry{
		Contract: contract,
		Concrete: concrete,
		Name:     name,
		Lifetime: lifetime,
		Abstract: unique,
	})
	return nil
}

// Check reports the *RejectedError Register would return for the binding,
// without storing anything. Lifetimes are never unregistered, so a binding
// that passes Check is accepted by a later Register.
func (c *Container) Check(contract, concrete *metadata.Type, _ string, lifetime Lifetime) error {
	if contract == nil || concrete == nil {
		return &RejectedError{Contract: describe(contract), Concrete: describe(concrete), Reason: "nil type"}
	}
	reject := func(reason string) error {
		return &RejectedError{Contract: contract.String(), Concrete: concrete.String(), Reason: reason}
	}
	if !contract.IsInterface() {
		return reject("contract is not an interface")
	}
	if concrete.IsInterface() {
		return reject("concrete is an interface")
	}
	if !c.Known(lifetime) {
		return reject(fmt.Sprintf("unknown lifetime %q", lifetime))
	}
	return nil
}

func constructorFactory(concrete *metadata.Type) Factory {
	ctor := concrete.Constructor()
	if ctor == nil {
		return func(*Container) any {
			panic(fmt.Sprintf("container: [%s] has no constructor", concrete))
		}
	}
	return func(c *Container) any { return ctor(c) }
}

func describe(t *metadata.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// RegisterLifetime makes a custom lifetime available to Register.
func (c *Container) RegisterLifetime(name Lifetime, manager LifetimeManager) {
	if manager == nil {
		panic(fmt.Sprintf("container: nil manager for lifetime %q", name))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lifetimes[name] = manager
}

// Known reports whether l is a built-in lifetime or one added through
// RegisterLifetime.
func (c *Container) Known(l Lifetime) bool {
	switch l {
	case Transient, Singleton, PerThread:
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.lifetimes[l]
	return ok
}

// Alias registers an alternative name for an abstract.
//
//	c.Alias("cache", "cacheManager")
func (c *Container) Alias(abstract, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if abstract == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", abstract))
	}
	c.aliases[alias] = c.canonical(abstract)
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates the resolved instance of an abstract.
//
//	c.Extend("logger", func(instance any, c *container.Container) any {
//	    return &TimestampLogger{Inner: instance.(Logger)}
//	})
func (c *Container) Extend(abstract string, fn func(instance any, c *Container) any) {
	c.mu.Lock()
	key := c.canonical(abstract)
	c.extenders[key] = append(c.extenders[key], fn)
	inst, resolved := c.instances[key]
	c.mu.Unlock()

	// Already-resolved singletons are decorated in place.
	if resolved {
		extended := fn(inst, c)
		c.mu.Lock()
		c.instances[key] = extended
		c.mu.Unlock()
	}
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tagged resolves all abstracts registered under a tag.
func (c *Container) Tagged(tag string) []any {
	c.mu.RLock()
	abstracts := slices.Clone(c.tags[tag])
	c.mu.RUnlock()

	result := make([]any, 0, len(abstracts))
	for _, abs := range abstracts {
		result = append(result, c.make(abs))
	}
	return result
}

// All resolves every typed binding of contract, in registration order.
func (c *Container) All(contract *metadata.Type) []any {
	return c.Tagged(contract.String())
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract from the container. It panics when nothing is
// bound under abstract; use MakeE to get an error instead.
func (c *Container) Make(abstract string) any {
	return c.make(abstract)
}

// MakeE is Make returning *BindingNotFoundError instead of panicking.
func (c *Container) MakeE(abstract string) (any, error) {
	return c.resolve(abstract)
}

func (c *Container) make(abstract string) any {
	instance, err := c.resolve(abstract)
	if err != nil {
		panic(err.Error())
	}
	return instance
}

// resolve is the internal resolver (no outer lock: individual ops lock as needed).
func (c *Container) resolve(abstract string) (any, error) {
	c.mu.RLock()
	key := c.canonical(abstract)
	if inst, ok := c.instances[key]; ok {
		c.mu.RUnlock()
		return inst, nil
	}
	b, ok := c.bindings[key]
	missing := c.missing
	c.mu.RUnlock()

	if !ok {
		if missing == nil || !missing(abstract) {
			return nil, &BindingNotFoundError{Abstract: abstract}
		}
		c.mu.RLock()
		key = c.canonical(abstract)
		b, ok = c.bindings[key]
		inst, cached := c.instances[key]
		c.mu.RUnlock()
		if cached {
			return inst, nil
		}
		if !ok {
			return nil, &BindingNotFoundError{Abstract: abstract}
		}
	}

	return c.runFactory(key, b), nil
}

// runFactory executes a factory under the binding's lifetime.
func (c *Container) runFactory(key string, b *binding) any {
	build := func() any {
		instance := b.factory(c)
		c.mu.RLock()
		exts := c.extenders[key]
		c.mu.RUnlock()
		for _, ext := range exts {
			instance = ext(instance, c)
		}
		return instance
	}

	var instance any
	switch b.lifetime {
	case Transient:
		instance = build()
	case Singleton:
		instance = build()
		c.mu.Lock()
		if existing, ok := c.instances[key]; ok {
			instance = existing
		} else {
			c.instances[key] = instance
		}
		c.mu.Unlock()
	case PerThread:
		instance = c.perThread.Get(key, build)
	default:
		c.mu.RLock()
		manager := c.lifetimes[b.lifetime]
		c.mu.RUnlock()
		instance = manager.Get(key, build)
	}

	c.fireAfterResolving(key, instance)
	return instance
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound returns true if an abstract has been registered.
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	_, hasBinding := c.bindings[key]
	_, hasInstance := c.instances[key]
	return hasBinding || hasInstance
}

// Resolved returns true if the abstract holds a cached singleton instance.
func (c *Container) Resolved(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[c.canonical(abstract)]
	return ok
}

// ReleaseThread drops the per-thread instances cached for the calling
// goroutine. Call it when a worker goroutine finishes; the router does so
// after every request.
func (c *Container) ReleaseThread() { c.perThread.release() }

// Entries returns the typed bindings in registration order.
func (c *Container) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.entries)
}

// OnMissing installs a hook Make calls before giving up on an abstract.
// The hook returns true when it registered the abstract.
func (c *Container) OnMissing(fn func(abstract string) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.missing = fn
}

// canonical resolves an alias to its canonical key.
func (c *Container) canonical(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired after any abstract is resolved.
func (c *Container) AfterResolving(cb func(abstract string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(abstract string, instance any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(abstract, instance)
	}
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve is a generic helper that calls Make and type-asserts the result.
//
//	cache := container.Resolve[Cache](c, container.Key(cacheContract, ""))
func Resolve[T any](c *Container, abstract string) T {
	instance := c.Make(abstract)
	typed, ok := instance.(T)
	if !ok {
		panic(fmt.Sprintf("container: Resolve[%T]: [%s] resolved to %T", *new(T), abstract, instance))
	}
	return typed
}

// TryResolve is like Resolve but reports failure instead of panicking.
func TryResolve[T any](c *Container, abstract string) (T, bool) {
	instance, err := c.MakeE(abstract)
	if err != nil {
		var zero T
		return zero, false
	}
	typed, ok := instance.(T)
	return typed, ok
}
