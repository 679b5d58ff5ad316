package container_test

import (
	"errors"
	"testing"

	"github.com/km-arc/go-autowire/framework/container"
)

// ── stub providers ────────────────────────────────────────────────────────────

type eagerProvider struct {
	container.BaseProvider
	registerCalled bool
	bootCalled     bool
}

func (p *eagerProvider) Register(app *container.Container) error {
	p.registerCalled = true
	app.Singleton("eager-svc", func(c *container.Container) any { return "eager" })
	return nil
}

func (p *eagerProvider) Boot(app *container.Container) error {
	p.bootCalled = true
	return nil
}

// deferredProvider is lazy: only registered when "deferred-svc" is first resolved.
type deferredProvider struct {
	container.BaseProvider
	registerCalls int
	bootCalled    bool
}

func (p *deferredProvider) Register(app *container.Container) error {
	p.registerCalls++
	app.Singleton("deferred-svc", func(c *container.Container) any { return "deferred-value" })
	return nil
}

func (p *deferredProvider) Boot(app *container.Container) error {
	p.bootCalled = true
	return nil
}

func (p *deferredProvider) IsDeferred() bool   { return true }
func (p *deferredProvider) Provides() []string { return []string{"deferred-svc"} }

// failingProvider fails in the requested phase.
type failingProvider struct {
	container.BaseProvider
	failBoot bool
}

var errProvider = errors.New("provider failed")

func (p *failingProvider) Register(app *container.Container) error {
	if p.failBoot {
		return nil
	}
	return errProvider
}

func (p *failingProvider) Boot(app *container.Container) error {
	if p.failBoot {
		return errProvider
	}
	return nil
}

// ── ProviderRegistry ──────────────────────────────────────────────────────────

func TestRegistry_EagerProvider_RegisterCalled(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	p := &eagerProvider{}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if !p.registerCalled {
		t.Error("Register() should be called immediately for eager providers")
	}
}

func TestRegistry_EagerProvider_BootCalledAfterBoot(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	p := &eagerProvider{}
	_ = reg.Register(p)

	if p.bootCalled {
		t.Error("Boot() should NOT be called before registry.Boot()")
	}

	if err := reg.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	if !p.bootCalled {
		t.Error("Boot() should be called after registry.Boot()")
	}
}

func TestRegistry_EagerProvider_ServiceResolvable(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	_ = reg.Register(&eagerProvider{})
	_ = reg.Boot()

	if got := c.Make("eager-svc").(string); got != "eager" {
		t.Errorf("eager-svc: got %q, want 'eager'", got)
	}
}

func TestRegistry_Boot_IdempotentCallsAreIgnored(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	_ = reg.Register(&eagerProvider{})

	_ = reg.Boot()
	if err := reg.Boot(); err != nil {
		t.Errorf("second Boot() should be a no-op, got %v", err)
	}

	if !reg.Booted() {
		t.Error("Booted() should be true after Boot()")
	}
}

func TestRegistry_DuplicateRegister_Ignored(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	p := &eagerProvider{}
	_ = reg.Register(p)
	_ = reg.Register(p)

	if len(reg.Providers()) != 1 {
		t.Errorf("Providers(): got %d, want 1", len(reg.Providers()))
	}
}

func TestRegistry_RegisterError_Wrapped(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	err := reg.Register(&failingProvider{})
	if !errors.Is(err, errProvider) {
		t.Fatalf("Register: got %v, want wrapped errProvider", err)
	}
	if len(reg.Providers()) != 0 {
		t.Error("failed provider should not be listed")
	}
}

func TestRegistry_BootError_Wrapped(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	_ = reg.Register(&failingProvider{failBoot: true})

	if err := reg.Boot(); !errors.Is(err, errProvider) {
		t.Fatalf("Boot: got %v, want wrapped errProvider", err)
	}
}

// ── Deferred providers ────────────────────────────────────────────────────────

func TestRegistry_DeferredProvider_NotRegisteredEagerly(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())

	p := &deferredProvider{}
	_ = reg.Register(p)
	_ = reg.Boot()

	if p.registerCalls != 0 {
		t.Error("deferred provider Register() should not be called until Make()")
	}
}

func TestRegistry_DeferredProvider_RegisteredOnFirstMake(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	_ = reg.Register(p)
	_ = reg.Boot()

	if got := c.Make("deferred-svc").(string); got != "deferred-value" {
		t.Errorf("deferred-svc: got %q, want 'deferred-value'", got)
	}
	_ = c.Make("deferred-svc")

	if p.registerCalls != 1 {
		t.Errorf("Register() calls: got %d, want 1", p.registerCalls)
	}
	if !p.bootCalled {
		t.Error("deferred provider loaded after Boot() should be booted")
	}
}

func TestRegistry_Providers_ReturnsEagerOnes(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	_ = reg.Register(&eagerProvider{})
	_ = reg.Register(&deferredProvider{})

	if len(reg.Providers()) != 1 {
		t.Errorf("Providers(): got %d, want 1 (eager only)", len(reg.Providers()))
	}
}

// ── BaseProvider defaults ─────────────────────────────────────────────────────

func TestBaseProvider_Defaults(t *testing.T) {
	var p container.BaseProvider

	if err := p.Boot(container.New()); err != nil {
		t.Errorf("BaseProvider.Boot() should return nil, got %v", err)
	}
	if p.IsDeferred() {
		t.Error("BaseProvider.IsDeferred() should be false")
	}
	if len(p.Provides()) != 0 {
		t.Error("BaseProvider.Provides() should return empty slice")
	}
}

func TestRegistry_RegisterAfterBoot_BootsImmediately(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	_ = reg.Boot()

	p := &eagerProvider{}
	_ = reg.Register(p)

	if !p.bootCalled {
		t.Error("provider registered after Boot() should be booted immediately")
	}
}
